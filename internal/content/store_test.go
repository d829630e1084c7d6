package content_test

import (
	"context"
	"testing"
	"time"

	"arbor/internal/content"
	"arbor/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	count, err := store.FreshCount(ctx)
	if err != nil {
		t.Fatalf("FreshCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty database, got %d fresh photos", count)
	}
}

func TestUpsertPhotoCreatesRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	captured := time.Date(2019, time.July, 14, 10, 30, 0, 0, time.UTC)
	nodeID, created, err := store.UpsertPhoto(ctx, content.UpsertParams{
		Filename:     "dscn0010_20190714_103000.jpg",
		OrigFilename: "DSCN0010.JPG",
		Title:        "Nieuwe foto",
		Created:      captured,
	})
	if err != nil {
		t.Fatalf("UpsertPhoto failed: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create a record")
	}

	photo, err := store.PhotoByFilename(ctx, "dscn0010_20190714_103000.jpg")
	if err != nil {
		t.Fatalf("PhotoByFilename failed: %v", err)
	}
	if photo.NodeID != nodeID {
		t.Fatalf("expected node %d, got %d", nodeID, photo.NodeID)
	}
	if photo.OrigFilename != "DSCN0010.JPG" {
		t.Fatalf("unexpected original filename %q", photo.OrigFilename)
	}
	if !photo.Fresh {
		t.Fatal("expected new photo to be fresh")
	}
	if !photo.Created.Equal(captured) {
		t.Fatalf("expected capture time %v, got %v", captured, photo.Created)
	}

	node, err := store.NodeByID(ctx, nodeID)
	if err != nil {
		t.Fatalf("NodeByID failed: %v", err)
	}
	if node.Type != content.NodeTypePhoto {
		t.Fatalf("expected photo node, got %q", node.Type)
	}
	if !node.Created.Equal(captured) {
		t.Fatalf("expected node created %v, got %v", captured, node.Created)
	}
}

func TestUpsertPhotoIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := time.Date(2019, time.July, 14, 10, 30, 0, 0, time.UTC)
	nodeID, _, err := store.UpsertPhoto(ctx, content.UpsertParams{
		Filename:     "dscn0010_20190714_103000.jpg",
		OrigFilename: "DSCN0010.JPG",
		Title:        "Nieuwe foto",
		Created:      first,
	})
	if err != nil {
		t.Fatalf("first UpsertPhoto failed: %v", err)
	}
	if err := store.ClearFresh(ctx, nodeID); err != nil {
		t.Fatalf("ClearFresh failed: %v", err)
	}

	second := first.Add(time.Hour)
	againID, created, err := store.UpsertPhoto(ctx, content.UpsertParams{
		Filename:     "dscn0010_20190714_103000.jpg",
		OrigFilename: "DSCN0010 (1).JPG",
		Title:        "Nieuwe foto",
		Created:      second,
	})
	if err != nil {
		t.Fatalf("second UpsertPhoto failed: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to reuse the existing record")
	}
	if againID != nodeID {
		t.Fatalf("expected node %d, got %d", nodeID, againID)
	}

	photos, err := store.ListPhotos(ctx, 0)
	if err != nil {
		t.Fatalf("ListPhotos failed: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("expected one photo record, got %d", len(photos))
	}
	photo := photos[0]
	if !photo.Created.Equal(second) {
		t.Fatalf("expected refreshed capture time %v, got %v", second, photo.Created)
	}
	if photo.OrigFilename != "DSCN0010 (1).JPG" {
		t.Fatalf("expected refreshed original name, got %q", photo.OrigFilename)
	}
	if !photo.Fresh {
		t.Fatal("expected second upsert to restore the fresh flag")
	}

	node, err := store.NodeByID(ctx, nodeID)
	if err != nil {
		t.Fatalf("NodeByID failed: %v", err)
	}
	if !node.Created.Equal(second) {
		t.Fatalf("expected node created aligned to %v, got %v", second, node.Created)
	}
}

func TestFreshHelpers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	older := time.Date(2019, time.June, 1, 9, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)
	oldID := testsupport.NewPhoto(t, store, "img_1000_20190601_090000.jpg", older)
	testsupport.NewPhoto(t, store, "img_1001_20190701_090000.jpg", newer)

	count, err := store.FreshCount(ctx)
	if err != nil {
		t.Fatalf("FreshCount failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 fresh photos, got %d", count)
	}

	oldest, err := store.OldestFresh(ctx)
	if err != nil {
		t.Fatalf("OldestFresh failed: %v", err)
	}
	if oldest == nil || oldest.NodeID != oldID {
		t.Fatalf("expected oldest fresh node %d, got %#v", oldID, oldest)
	}

	if err := store.EditNode(ctx, oldID, "Zomeravond", "Een lange avond in de tuin."); err != nil {
		t.Fatalf("EditNode failed: %v", err)
	}
	count, err = store.FreshCount(ctx)
	if err != nil {
		t.Fatalf("FreshCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected editing to clear one fresh flag, got %d remaining", count)
	}
}

func TestEditNodeBumpsRevision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	nodeID, err := store.AddNode(ctx, -1, "Moestuin", "Het eerste bed is gespit.")
	if err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := store.EditNode(ctx, nodeID, "Moestuin", "Het eerste bed is ingezaaid."); err != nil {
		t.Fatalf("EditNode failed: %v", err)
	}

	node, err := store.NodeByID(ctx, nodeID)
	if err != nil {
		t.Fatalf("NodeByID failed: %v", err)
	}
	if node.RevCnt != 2 {
		t.Fatalf("expected revision count 2, got %d", node.RevCnt)
	}

	stamps, err := store.History(ctx, nodeID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(stamps) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(stamps))
	}

	if err := store.EditNode(ctx, nodeID+100, "Ghost", ""); err == nil {
		t.Fatal("expected error editing a missing node")
	}
}

func TestBreadcrumb(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	rootID, err := store.AddNode(ctx, -1, "Tuin", "")
	if err != nil {
		t.Fatalf("AddNode root failed: %v", err)
	}
	midID, err := store.AddNode(ctx, rootID, "Vijver", "")
	if err != nil {
		t.Fatalf("AddNode mid failed: %v", err)
	}
	leafID, err := store.AddNode(ctx, midID, "Kikkers", "")
	if err != nil {
		t.Fatalf("AddNode leaf failed: %v", err)
	}

	trail, err := store.Breadcrumb(ctx, leafID)
	if err != nil {
		t.Fatalf("Breadcrumb failed: %v", err)
	}
	want := []string{"Tuin", "Vijver", "Kikkers"}
	if len(trail) != len(want) {
		t.Fatalf("expected %d crumbs, got %d", len(want), len(trail))
	}
	for i, title := range want {
		if trail[i].Title != title {
			t.Fatalf("crumb %d: expected %q, got %q", i, title, trail[i].Title)
		}
	}

	children, err := store.Children(ctx, rootID)
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if len(children) != 1 || children[0].Node.ID != midID {
		t.Fatalf("unexpected children of root: %#v", children)
	}

	roots, err := store.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if len(roots) != 1 || roots[0].Node.ID != rootID {
		t.Fatalf("unexpected tree roots: %#v", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Node.ID != midID {
		t.Fatalf("unexpected mid level: %#v", roots[0].Children)
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].Node.ID != leafID {
		t.Fatalf("unexpected leaf level: %#v", roots[0].Children[0].Children)
	}
}

func TestArchiveGroupsByMonth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	june := time.Date(2019, time.June, 10, 12, 0, 0, 0, time.UTC)
	july := time.Date(2019, time.July, 2, 12, 0, 0, 0, time.UTC)
	testsupport.NewPhoto(t, store, "img_2000_20190610_120000.jpg", june)
	testsupport.NewPhoto(t, store, "img_2001_20190612_120000.jpg", june.AddDate(0, 0, 2))
	testsupport.NewPhoto(t, store, "img_2002_20190702_120000.jpg", july)

	months, err := store.Archive(ctx, time.UTC)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 archive months, got %d", len(months))
	}
	if months[0].Month != time.July || months[0].Count != 1 {
		t.Fatalf("unexpected first month: %#v", months[0])
	}
	if months[1].Month != time.June || months[1].Count != 2 {
		t.Fatalf("unexpected second month: %#v", months[1])
	}

	nodes, err := store.NodesForMonth(ctx, 2019, time.June, time.UTC)
	if err != nil {
		t.Fatalf("NodesForMonth failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes in June, got %d", len(nodes))
	}
}

func TestTaxonomyReconciliation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	vocabID, err := store.AddVocabulary(ctx, "planten", "Wat er groeit", 10)
	if err != nil {
		t.Fatalf("AddVocabulary failed: %v", err)
	}
	rose, err := store.AddTerm(ctx, vocabID, "roos", "")
	if err != nil {
		t.Fatalf("AddTerm failed: %v", err)
	}
	tulip, err := store.AddTerm(ctx, vocabID, "tulp", "")
	if err != nil {
		t.Fatalf("AddTerm failed: %v", err)
	}

	nodeID := testsupport.NewPhoto(t, store, "img_3000_20190801_080000.jpg",
		time.Date(2019, time.August, 1, 8, 0, 0, 0, time.UTC))

	if err := store.UpdateTaxonomy(ctx, nodeID, []int64{rose, tulip}); err != nil {
		t.Fatalf("UpdateTaxonomy failed: %v", err)
	}
	terms, err := store.TermsForNode(ctx, nodeID)
	if err != nil {
		t.Fatalf("TermsForNode failed: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}

	if err := store.UpdateTaxonomy(ctx, nodeID, []int64{tulip}); err != nil {
		t.Fatalf("UpdateTaxonomy failed: %v", err)
	}
	terms, err = store.TermsForNode(ctx, nodeID)
	if err != nil {
		t.Fatalf("TermsForNode failed: %v", err)
	}
	if len(terms) != 1 || terms[0].Name != "tulp" {
		t.Fatalf("expected only tulp to remain, got %#v", terms)
	}

	tagged, err := store.NodesForTerm(ctx, tulip)
	if err != nil {
		t.Fatalf("NodesForTerm failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Node.ID != nodeID {
		t.Fatalf("unexpected tagged nodes: %#v", tagged)
	}
}

func TestSearchMatchesTitleAndBody(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.AddNode(ctx, -1, "Appel", "De oogst valt dit jaar mee."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := store.AddNode(ctx, -1, "Compost", "De schillen van de appel verteren snel."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := store.AddNode(ctx, -1, "Gras", "Maaien kan weer."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	hits, err := store.Search(ctx, "appel")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	for _, hit := range hits {
		if hit.Title == "Gras" {
			t.Fatalf("unexpected hit %q", hit.Title)
		}
	}

	hits, err = store.Search(ctx, `een "rare" vraag`)
	if err != nil {
		t.Fatalf("Search with quotes failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}

	hits, err = store.Search(ctx, "   ")
	if err != nil {
		t.Fatalf("Search with blank query failed: %v", err)
	}
	if hits != nil {
		t.Fatalf("expected no hits for blank query, got %#v", hits)
	}
}

func TestSearchRequiresEveryWord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.AddNode(ctx, -1, "Rode beuk", "Geplant in het voorjaar."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := store.AddNode(ctx, -1, "Beuk", "De haag kleurt rode tinten in de herfst."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if _, err := store.AddNode(ctx, -1, "Haagbeuk", "Snoeien in juni."); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	// Both words count, wherever they appear in title or body.
	hits, err := store.Search(ctx, "rode beuk")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	for _, hit := range hits {
		if hit.Title == "Haagbeuk" {
			t.Fatalf("unexpected hit %q", hit.Title)
		}
	}

	hits, err = store.Search(ctx, "rode esdoorn")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits when a word is missing, got %d", len(hits))
	}
}
