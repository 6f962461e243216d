package all

import (
	"reflect"
	"testing"

	"seedqa/internal/storage"
)

func TestAllKindsRegistered(t *testing.T) {
	want := []string{"mssql", "postgres", "sqlite"}
	if got := storage.ListKinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ListKinds() = %v, want %v", got, want)
	}
}
