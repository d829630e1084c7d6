package pcloud_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"arbor/internal/logging"
	"arbor/internal/services"
	"arbor/internal/services/pcloud"
)

// fakeAccount serves the subset of the storage wire contract the client
// consumes, recording request parameters for assertions.
type fakeAccount struct {
	mux      *http.ServeMux
	requests []string
}

func newFakeAccount(t *testing.T) (*fakeAccount, *httptest.Server) {
	t.Helper()
	account := &fakeAccount{mux: http.NewServeMux()}

	account.mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("getauth") != "1" {
			http.Error(w, "missing getauth", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"result":0,"auth":"token-1","usedquota":50,"quota":100}`)
	})
	account.mux.HandleFunc("/listfolder", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("path") == "/" {
			fmt.Fprint(w, `{"result":0,"metadata":{"folderid":0,"contents":[
				{"name":"Public Folder","isfolder":true,"folderid":4242424242}
			]}}`)
			return
		}
		fmt.Fprint(w, `{"result":0,"metadata":{"folderid":7,"contents":[
			{"name":"inbox","isfolder":true,"folderid":11},
			{"name":"DSC0001.JPG","isfolder":false,"fileid":21,"size":5,
			 "created":"Fri, 01 May 2020 10:00:00 +0000"},
			{"name":"notes.txt","isfolder":false,"fileid":22,"size":3,
			 "created":"Sat, 02 May 2020 09:30:00 +0000"}
		]}}`)
	})
	account.mux.HandleFunc("/file_open", func(w http.ResponseWriter, r *http.Request) {
		account.requests = append(account.requests, "open fileid="+r.URL.Query().Get("fileid"))
		fmt.Fprint(w, `{"result":0,"fd":9}`)
	})
	account.mux.HandleFunc("/file_read", func(w http.ResponseWriter, r *http.Request) {
		account.requests = append(account.requests,
			"read fd="+r.URL.Query().Get("fd")+" count="+r.URL.Query().Get("count"))
		fmt.Fprint(w, "hello")
	})
	account.mux.HandleFunc("/file_close", func(w http.ResponseWriter, r *http.Request) {
		account.requests = append(account.requests, "close fd="+r.URL.Query().Get("fd"))
		fmt.Fprint(w, `{"result":0}`)
	})
	account.mux.HandleFunc("/renamefile", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		account.requests = append(account.requests,
			"rename fileid="+q.Get("fileid")+" tofolderid="+q.Get("tofolderid")+" toname="+q.Get("toname"))
		fmt.Fprint(w, `{"result":0,"metadata":{"name":"renamed"}}`)
	})
	account.mux.HandleFunc("/uploadfile", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		account.requests = append(account.requests, "upload folderid="+r.URL.Query().Get("folderid"))
		fmt.Fprint(w, `{"result":0,"metadata":[{"name":"up.jpg","fileid":31}],"fileids":[31]}`)
	})
	account.mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		account.requests = append(account.requests, "logout auth="+r.URL.Query().Get("auth"))
		fmt.Fprint(w, `{"result":0,"auth_deleted":true}`)
	})

	server := httptest.NewServer(account.mux)
	t.Cleanup(server.Close)
	return account, server
}

func connect(t *testing.T, server *httptest.Server) *pcloud.Client {
	t.Helper()
	client, err := pcloud.Connect(context.Background(), pcloud.Options{
		BaseURL:  server.URL,
		Username: "tester",
		Password: "secret",
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("pcloud.Connect: %v", err)
	}
	return client
}

func TestConnectFailsOnHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := pcloud.Connect(context.Background(), pcloud.Options{BaseURL: server.URL}, logging.NewNop())
	if !errors.Is(err, services.ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}
}

func TestConnectFailsOnRemoteResultCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":2000,"error":"Log in failed."}`)
	}))
	defer server.Close()

	_, err := pcloud.Connect(context.Background(), pcloud.Options{BaseURL: server.URL}, logging.NewNop())
	if !errors.Is(err, services.ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}
}

func TestListFolderPartitionsChildren(t *testing.T) {
	t.Parallel()

	_, server := newFakeAccount(t)
	client := connect(t, server)

	listing, err := client.ListFolder(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if len(listing.Subfolders) != 1 || len(listing.Files) != 2 {
		t.Fatalf("listing split = %d folders / %d files, want 1/2",
			len(listing.Subfolders), len(listing.Files))
	}
	file, ok := listing.Files["DSC0001.JPG"]
	if !ok {
		t.Fatal("DSC0001.JPG missing from files")
	}
	if file.FileID != 21 || file.Size != 5 {
		t.Errorf("file = %+v", file)
	}
	if got := file.Created.UTC().Format("2006-01-02 15:04:05"); got != "2020-05-01 10:00:00" {
		t.Errorf("created = %s", got)
	}
}

func TestResolvePublicRoot(t *testing.T) {
	t.Parallel()

	_, server := newFakeAccount(t)
	client := connect(t, server)

	id, err := client.ResolvePublicRoot(context.Background(), "Public Folder")
	if err != nil {
		t.Fatalf("ResolvePublicRoot: %v", err)
	}
	if id != 4242424242 {
		t.Errorf("folder id = %d", id)
	}

	if _, err := client.ResolvePublicRoot(context.Background(), "No Such Folder"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestReadFileRunsOpenReadCloseSequence(t *testing.T) {
	t.Parallel()

	account, server := newFakeAccount(t)
	client := connect(t, server)

	content, err := client.ReadFile(context.Background(), pcloud.File{FileID: 21, Name: "DSC0001.JPG", Size: 5})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content = %q", content)
	}

	want := []string{"open fileid=21", "read fd=9 count=5", "close fd=9"}
	if len(account.requests) != len(want) {
		t.Fatalf("requests = %v, want %v", account.requests, want)
	}
	for i, req := range want {
		if account.requests[i] != req {
			t.Errorf("request[%d] = %q, want %q", i, account.requests[i], req)
		}
	}
}

func TestMoveFileSendsRenameParameters(t *testing.T) {
	t.Parallel()

	account, server := newFakeAccount(t)
	client := connect(t, server)

	if err := client.MoveFile(context.Background(), 21, 99, "DSC0001_20200501_100000.JPG"); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	last := account.requests[len(account.requests)-1]
	if last != "rename fileid=21 tofolderid=99 toname=DSC0001_20200501_100000.JPG" {
		t.Errorf("rename request = %q", last)
	}
}

func TestUploadFilePostsMultipart(t *testing.T) {
	t.Parallel()

	account, server := newFakeAccount(t)
	client := connect(t, server)

	path := filepath.Join(t.TempDir(), "up.jpg")
	if err := os.WriteFile(path, []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("write local file: %v", err)
	}

	if err := client.UploadFile(context.Background(), "up.jpg", path, 55); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	last := account.requests[len(account.requests)-1]
	if last != "upload folderid=55" {
		t.Errorf("upload request = %q", last)
	}
}

func TestLogoutSendsSessionToken(t *testing.T) {
	t.Parallel()

	account, server := newFakeAccount(t)
	client := connect(t, server)

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	last := account.requests[len(account.requests)-1]
	if last != "logout auth=token-1" {
		t.Errorf("logout request = %q", last)
	}
}
