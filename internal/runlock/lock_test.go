package runlock

import "testing"

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	fl, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// A second acquisition of the same lock file must fail while held.
	if _, err := Acquire(dir); err == nil {
		t.Error("second Acquire succeeded while lock held")
	}

	Release(fl)

	fl2, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
	Release(fl2)
}

func TestReleaseNil(t *testing.T) {
	Release(nil) // must not panic
}
