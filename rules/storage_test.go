package rules

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codemarc/mailmind/config"
	"github.com/codemarc/mailmind/model"
)

func savedFixtures() []model.Message {
	return []model.Message{
		{
			Index:       1,
			SeqNum:      42,
			SenderEmail: "ann@corp.example",
			Subject:     "status update",
			Date:        time.Date(2026, 2, 2, 10, 30, 0, 0, time.UTC),
			Category:    model.CategoryInformative,
			Disposition: model.DispositionReadLater,
		},
		{
			Index:       2,
			SeqNum:      41,
			SenderEmail: "bob@other.example",
			Subject:     "your order shipped",
			Category:    model.CategoryRoutine,
			Disposition: model.DispositionTrack,
		},
	}
}

func TestRunSaveThenLoad(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})
	list := savedFixtures()

	if _, err := runSave(ctx, list, config.RuleRef{Name: "save"}); err != nil {
		t.Fatalf("runSave() error = %v", err)
	}

	loaded, err := runLoad(ctx, nil, config.RuleRef{Name: "load"})
	if err != nil {
		t.Fatalf("runLoad() error = %v", err)
	}
	if diff := cmp.Diff(list, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestRunSave_NameRedirectsRun(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})

	if _, err := runSave(ctx, savedFixtures(), config.RuleRef{Name: "save", Save: "later"}); err != nil {
		t.Fatalf("runSave() error = %v", err)
	}
	if ctx.Options.Folder != "later" {
		t.Errorf("Options.Folder = %q, want later", ctx.Options.Folder)
	}
	if _, err := ctx.Store.Load(ctx.Account.Name, "later"); err != nil {
		t.Errorf("artifact for redirected name missing: %v", err)
	}
}

func TestRunSave_NameDoesNotClobberBoundFolder(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})
	ctx.Options.Folder = "Reading"

	if _, err := runSave(ctx, savedFixtures(), config.RuleRef{Name: "save", Save: "later"}); err != nil {
		t.Fatalf("runSave() error = %v", err)
	}
	if ctx.Options.Folder != "Reading" {
		t.Errorf("Options.Folder = %q, a bound folder must win over the save name", ctx.Options.Folder)
	}
	// The artifact lands under the bound folder's name, not the save name.
	if _, err := ctx.Store.Load(ctx.Account.Name, "Reading"); err != nil {
		t.Errorf("artifact for bound folder missing: %v", err)
	}
}

func TestRunLoad_NameDoesNotClobberBoundFolder(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})
	ctx.Options.Folder = "Reading"
	if err := ctx.Store.Save(ctx.Account.Name, "Reading", savedFixtures()); err != nil {
		t.Fatal(err)
	}

	out, err := runLoad(ctx, nil, config.RuleRef{Name: "load", Load: "later"})
	if err != nil {
		t.Fatalf("runLoad() error = %v", err)
	}
	if ctx.Options.Folder != "Reading" {
		t.Errorf("Options.Folder = %q, want Reading", ctx.Options.Folder)
	}
	if len(out) != 2 {
		t.Errorf("loaded %d messages from the bound folder artifact, want 2", len(out))
	}
}

func TestRunSave_ExplicitPath(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})
	path := filepath.Join(t.TempDir(), "snapshot.json")

	if _, err := runSave(ctx, savedFixtures(), config.RuleRef{Name: "save", Save: path}); err != nil {
		t.Fatalf("runSave() error = %v", err)
	}
	if ctx.Options.Folder != "" {
		t.Errorf("explicit path should not redirect the run, Folder = %q", ctx.Options.Folder)
	}

	loaded, err := ctx.Store.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("loaded %d messages, want 2", len(loaded))
	}
}

func TestRunLoad_MissingKeepsList(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "never-saved"})
	list := savedFixtures()

	out, err := runLoad(ctx, list, config.RuleRef{Name: "load"})
	if err != nil {
		t.Fatalf("runLoad() should fail open, got %v", err)
	}
	if diff := cmp.Diff(list, out); diff != "" {
		t.Errorf("missing artifact should keep the working list:\n%s", diff)
	}
	if len(ctx.failures) != 1 {
		t.Errorf("recorded %d failures, want 1", len(ctx.failures))
	}
}

func TestRunDrop(t *testing.T) {
	ctx := newTestContext(t, newFakeClient(), config.RuleSet{Set: "triage"})
	saved := savedFixtures()
	if _, err := runSave(ctx, saved, config.RuleRef{Name: "save"}); err != nil {
		t.Fatalf("runSave() error = %v", err)
	}

	handled := saved[:1]
	out, err := runDrop(ctx, handled, config.RuleRef{Name: "drop"})
	if err != nil {
		t.Fatalf("runDrop() error = %v", err)
	}
	if diff := cmp.Diff(handled, out); diff != "" {
		t.Errorf("drop should pass its input through:\n%s", diff)
	}

	kept, err := ctx.Store.Load(ctx.Account.Name, "triage")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(kept) != 1 || kept[0].SeqNum != 41 {
		t.Errorf("artifact after drop = %v, want only seq 41", model.SeqNums(kept))
	}
}
