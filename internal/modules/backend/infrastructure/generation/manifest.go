package generation

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/meetai/kiwi/internal/modules/backend/domain/services/generation"
)

// ManifestVersion 绑定清单格式版本
const ManifestVersion = 1

// FunctionBinding 函数签名快照
type FunctionBinding struct {
	Name       string   `cbor:"name"`
	Params     []string `cbor:"params"`
	ReturnKind string   `cbor:"return"`
}

// ArrayBinding 数组快照
type ArrayBinding struct {
	Name  string `cbor:"name"`
	Scope string `cbor:"scope"`
	Rows  int    `cbor:"rows"`
	Cols  int    `cbor:"cols"`
}

// BindingManifest 编译单元簿记表快照，供外部工具读取
type BindingManifest struct {
	Version        int                     `cbor:"version"`
	UnitID         string                  `cbor:"unit"`
	Module         string                  `cbor:"module,omitempty"`
	Functions      []FunctionBinding       `cbor:"functions"`
	ReuseTemplates map[string][]string     `cbor:"templates"`
	Arrays         []ArrayBinding          `cbor:"arrays"`
	Scopes         map[string][]string     `cbor:"scopes"`
	Diagnostics    []generation.Diagnostic `cbor:"diagnostics,omitempty"`
}

var manifestEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("generation: failed to create CBOR enc mode: %v", err))
	}
	manifestEncMode = em
}

// Manifest 生成当前编译单元的绑定清单
func (c *Container) Manifest() *BindingManifest {
	m := &BindingManifest{
		Version:        ManifestVersion,
		UnitID:         c.id,
		Module:         c.moduleName,
		Functions:      []FunctionBinding{},
		ReuseTemplates: c.functionRegistry.ReuseTemplates(),
		Arrays:         []ArrayBinding{},
		Scopes:         c.symbolManager.Scopes(),
		Diagnostics:    c.reporter.Diagnostics(),
	}

	for _, sig := range c.functionRegistry.Functions() {
		m.Functions = append(m.Functions, FunctionBinding{
			Name:       sig.Name,
			Params:     append([]string{}, sig.Params...),
			ReturnKind: sig.ReturnKind.String(),
		})
	}
	for _, arr := range c.arrayManager.Arrays() {
		m.Arrays = append(m.Arrays, ArrayBinding{
			Name:  arr.Name,
			Scope: arr.Scope,
			Rows:  arr.Rows,
			Cols:  arr.Cols,
		})
	}
	return m
}

// MarshalManifest 以规范 CBOR 编码绑定清单
func MarshalManifest(m *BindingManifest) ([]byte, error) {
	return manifestEncMode.Marshal(m)
}

// UnmarshalManifest 解码绑定清单
func UnmarshalManifest(data []byte) (*BindingManifest, error) {
	var m BindingManifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("generation: unmarshal manifest: %w", err)
	}
	return &m, nil
}
