package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"arbor/internal/config"
	"arbor/internal/logging"
	"arbor/internal/services/pcloud"
)

// freeSpaceFloorBytes is the minimum free space required on the scratch
// filesystem before an import run starts.
const freeSpaceFloorBytes = 256 << 20

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

var statfs statfsFunc = realStatfs

// CheckCredentials verifies that remote storage credentials are configured.
func CheckCredentials(cfg *config.Config) Result {
	const name = "Credentials"
	if strings.TrimSpace(cfg.Pcloud.Username) == "" || strings.TrimSpace(cfg.Pcloud.Password) == "" {
		return Result{Name: name, Detail: "username or password missing"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has room for derivative
// files.
func CheckFreeSpace(name, path string) Result {
	total, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if total == 0 {
		return Result{Name: name, Passed: true, Detail: "unknown filesystem size"}
	}
	if free < freeSpaceFloorBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%d MiB free, need %d MiB", free>>20, int64(freeSpaceFloorBytes)>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free>>20)}
}

// CheckRemote verifies that the remote storage account is reachable and the
// credentials are valid. It uses a 15-second timeout and a single attempt.
func CheckRemote(ctx context.Context, cfg *config.Config) Result {
	const name = "Remote storage"

	if result := CheckCredentials(cfg); !result.Passed {
		return Result{Name: name, Detail: result.Detail}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := pcloud.Connect(checkCtx, pcloud.OptionsFromConfig(cfg), logging.NewNop())
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	_ = client.Logout(checkCtx)
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
