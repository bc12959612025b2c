package di

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

func TestContainer_ResolvesBackendService(t *testing.T) {
	root := t.TempDir()
	content := "[module]\nname = \"wired\"\nsource_filename = \"wired.kiwi\"\n"
	if err := os.WriteFile(filepath.Join(root, "kiwi.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewContainer(root)
	be.Err(t, c.Validate(), nil)

	svc, err := c.GetBackendService()
	be.Err(t, err, nil)

	result, err := svc.Compile(func(gen generation.CodeGenerator) error {
		return gen.StatementGenerator().PrintString(gen.IRModuleManager(), "wired")
	})
	be.Err(t, err, nil)
	be.True(t, strings.Contains(result.IR, `source_filename = "wired.kiwi"`))
	be.Equal(t, result.Manifest.Module, "wired")

	be.True(t, len(c.ListServices()) >= 3)
	be.Err(t, c.Shutdown(), nil)
}

func TestContainer_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "kiwi.toml"), []byte("[module\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewContainer(root)
	be.Err(t, c.Validate())
	_, err := c.GetBackendService()
	be.Err(t, err)
}
