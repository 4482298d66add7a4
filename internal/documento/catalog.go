package documento

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/beneficiarios/internal/model"
	"github.com/hitoshi/beneficiarios/internal/repository"
)

// CatalogEntry はカタログファイルの1エントリ。
type CatalogEntry struct {
	Nombre      string `yaml:"nombre"`
	Abreviatura string `yaml:"abreviatura"`
	Pais        string `yaml:"pais"`
	Longitud    int    `yaml:"longitud"`
	SoloNumeros bool   `yaml:"soloNumeros"`
	Activo      *bool  `yaml:"activo"` // 省略時はtrue
}

// Catalog はseedコマンドが読み込むカタログファイルの形式。
//
//	documentos:
//	  - nombre: Documento Nacional de Identidad
//	    abreviatura: DNI
//	    pais: Peru
//	    longitud: 8
//	    soloNumeros: true
type Catalog struct {
	Documentos []CatalogEntry `yaml:"documentos"`
}

// LoadCatalog はYAML形式のカタログを読み込み、各エントリを検証する。
// 未知のキーはエラーにする。
func LoadCatalog(r io.Reader) ([]*model.DocumentoIdentidad, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Documentos))
	docs := make([]*model.DocumentoIdentidad, 0, len(c.Documentos))
	for i, e := range c.Documentos {
		doc, err := e.toModel()
		if err != nil {
			return nil, fmt.Errorf("documentos[%d]: %w", i, err)
		}
		key := strings.ToUpper(doc.Abreviatura) + "/" + strings.ToUpper(doc.Pais)
		if seen[key] {
			return nil, fmt.Errorf("documentos[%d]: duplicate entry %s", i, key)
		}
		seen[key] = true
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e CatalogEntry) toModel() (*model.DocumentoIdentidad, error) {
	doc := &model.DocumentoIdentidad{
		Nombre:      strings.TrimSpace(e.Nombre),
		Abreviatura: strings.TrimSpace(e.Abreviatura),
		Pais:        strings.TrimSpace(e.Pais),
		Longitud:    e.Longitud,
		SoloNumeros: e.SoloNumeros,
		Activo:      true,
	}
	if e.Activo != nil {
		doc.Activo = *e.Activo
	}

	switch {
	case doc.Nombre == "":
		return nil, errors.New("nombre is required")
	case doc.Abreviatura == "":
		return nil, errors.New("abreviatura is required")
	case doc.Pais == "":
		return nil, errors.New("pais is required")
	case doc.Longitud <= 0:
		return nil, fmt.Errorf("longitud must be positive: %d", doc.Longitud)
	case doc.Longitud > model.MaxLongitudDocumento:
		return nil, fmt.Errorf("longitud must be at most %d: %d", model.MaxLongitudDocumento, doc.Longitud)
	}
	return doc, nil
}

// Seed はカタログの各種別をリポジトリへ登録（作成または更新）し、処理件数を返す。
// 途中で失敗した場合はそれまでの件数とエラーを返す。
func Seed(ctx context.Context, repo repository.DocumentoIdentidadRepository, docs []*model.DocumentoIdentidad) (int, error) {
	for i, doc := range docs {
		if err := repo.Upsert(ctx, doc); err != nil {
			return i, fmt.Errorf("%s/%s: %w", doc.Abreviatura, doc.Pais, err)
		}
	}
	return len(docs), nil
}
