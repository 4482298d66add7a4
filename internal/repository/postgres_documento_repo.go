package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/beneficiarios/internal/model"
)

// PostgresDocumentoRepo はPostgreSQLを使用した身分証明書種別リポジトリ。
type PostgresDocumentoRepo struct {
	db *sql.DB
}

// NewPostgresDocumentoRepo はPostgresDocumentoRepoを生成する。
func NewPostgresDocumentoRepo(db *sql.DB) *PostgresDocumentoRepo {
	return &PostgresDocumentoRepo{db: db}
}

// ListActivos はアクティブな種別をストアド関数経由で取得する。
func (r *PostgresDocumentoRepo) ListActivos(ctx context.Context) ([]*model.DocumentoIdentidad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, abreviatura, pais, longitud, solo_numeros, activo
		 FROM sp_listar_documentos_identidad_activos()`,
	)
	if err != nil {
		return nil, fmt.Errorf("有効な身分証明書種別の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	docs := make([]*model.DocumentoIdentidad, 0)
	for rows.Next() {
		doc := &model.DocumentoIdentidad{}
		if err := rows.Scan(
			&doc.ID, &doc.Nombre, &doc.Abreviatura, &doc.Pais,
			&doc.Longitud, &doc.SoloNumeros, &doc.Activo,
		); err != nil {
			return nil, fmt.Errorf("身分証明書種別の読み取りに失敗しました: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("身分証明書種別の走査に失敗しました: %w", err)
	}

	return docs, nil
}

// FindByID は指定IDの種別を取得する。見つからない場合はnilを返す。
func (r *PostgresDocumentoRepo) FindByID(ctx context.Context, id int) (*model.DocumentoIdentidad, error) {
	doc := &model.DocumentoIdentidad{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, nombre, abreviatura, pais, longitud, solo_numeros, activo
		 FROM documento_identidad WHERE id = $1`,
		id,
	).Scan(
		&doc.ID, &doc.Nombre, &doc.Abreviatura, &doc.Pais,
		&doc.Longitud, &doc.SoloNumeros, &doc.Activo,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("身分証明書種別の取得に失敗しました: %w", err)
	}

	return doc, nil
}

// Upsert は (abreviatura, pais) をキーに種別を作成または更新し、docのIDを設定する。
func (r *PostgresDocumentoRepo) Upsert(ctx context.Context, doc *model.DocumentoIdentidad) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documento_identidad (nombre, abreviatura, pais, longitud, solo_numeros, activo)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (abreviatura, pais) DO UPDATE SET
		    nombre = EXCLUDED.nombre,
		    longitud = EXCLUDED.longitud,
		    solo_numeros = EXCLUDED.solo_numeros,
		    activo = EXCLUDED.activo
		 RETURNING id`,
		doc.Nombre, doc.Abreviatura, doc.Pais, doc.Longitud, doc.SoloNumeros, doc.Activo,
	).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("身分証明書種別の登録に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ DocumentoIdentidadRepository = (*PostgresDocumentoRepo)(nil)
