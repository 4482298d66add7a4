package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/beneficiarios/internal/model"
)

// PostgresBeneficiarioRepo はPostgreSQLを使用した受益者リポジトリ。
// 変更系の操作はマイグレーションで定義したストアド関数を呼び出す。
type PostgresBeneficiarioRepo struct {
	db *sql.DB
}

// NewPostgresBeneficiarioRepo はPostgresBeneficiarioRepoを生成する。
func NewPostgresBeneficiarioRepo(db *sql.DB) *PostgresBeneficiarioRepo {
	return &PostgresBeneficiarioRepo{db: db}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBeneficiario は受益者とLEFT JOINした種別列を読み取る。
// 種別列がNULLの場合、DocumentoIdentidadはnilのままにする。
func scanBeneficiario(s rowScanner) (*model.Beneficiario, error) {
	b := &model.Beneficiario{}
	var sexo string
	var docID, docLongitud sql.NullInt64
	var docNombre, docAbreviatura, docPais sql.NullString
	var docSoloNumeros, docActivo sql.NullBool

	if err := s.Scan(
		&b.ID, &b.Nombres, &b.Apellidos, &b.DocumentoIdentidadID,
		&b.NumeroDocumento, &b.FechaNacimiento, &sexo,
		&docID, &docNombre, &docAbreviatura, &docPais,
		&docLongitud, &docSoloNumeros, &docActivo,
	); err != nil {
		return nil, err
	}

	b.Sexo = model.Sexo(sexo)
	if docID.Valid {
		b.DocumentoIdentidad = &model.DocumentoIdentidad{
			ID:          int(docID.Int64),
			Nombre:      docNombre.String,
			Abreviatura: docAbreviatura.String,
			Pais:        docPais.String,
			Longitud:    int(docLongitud.Int64),
			SoloNumeros: docSoloNumeros.Bool,
			Activo:      docActivo.Bool,
		}
	}

	return b, nil
}

// List は全受益者を種別情報付きで取得する。
func (r *PostgresBeneficiarioRepo) List(ctx context.Context) ([]*model.Beneficiario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombres, apellidos, documento_identidad_id, numero_documento,
		        fecha_nacimiento, sexo,
		        di_id, di_nombre, di_abreviatura, di_pais, di_longitud, di_solo_numeros, di_activo
		 FROM sp_listar_beneficiarios()`,
	)
	if err != nil {
		return nil, fmt.Errorf("受益者一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	list := make([]*model.Beneficiario, 0)
	for rows.Next() {
		b, err := scanBeneficiario(rows)
		if err != nil {
			return nil, fmt.Errorf("受益者の読み取りに失敗しました: %w", err)
		}
		list = append(list, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("受益者一覧の走査に失敗しました: %w", err)
	}

	return list, nil
}

// FindByID は指定IDの受益者を種別情報付きで取得する。見つからない場合はnilを返す。
func (r *PostgresBeneficiarioRepo) FindByID(ctx context.Context, id int) (*model.Beneficiario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT b.id, b.nombres, b.apellidos, b.documento_identidad_id, b.numero_documento,
		        b.fecha_nacimiento, b.sexo,
		        di.id, di.nombre, di.abreviatura, di.pais, di.longitud, di.solo_numeros, di.activo
		 FROM beneficiario b
		 LEFT JOIN documento_identidad di ON b.documento_identidad_id = di.id
		 WHERE b.id = $1`,
		id,
	)

	b, err := scanBeneficiario(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("受益者の取得に失敗しました: %w", err)
	}

	return b, nil
}

// Create は受益者を作成し、ストアド関数が返す採番IDを返す。
func (r *PostgresBeneficiarioRepo) Create(ctx context.Context, b *model.Beneficiario) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_insertar_beneficiario($1, $2, $3, $4, $5, $6)`,
		b.Nombres, b.Apellidos, b.DocumentoIdentidadID,
		b.NumeroDocumento, b.FechaNacimiento, string(b.Sexo),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("受益者の作成に失敗しました: %w", err)
	}
	return id, nil
}

// Update は受益者を全項目置換で更新する。更新行がない場合はfalseを返す。
func (r *PostgresBeneficiarioRepo) Update(ctx context.Context, b *model.Beneficiario) (bool, error) {
	var affected int
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_actualizar_beneficiario($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Nombres, b.Apellidos, b.DocumentoIdentidadID,
		b.NumeroDocumento, b.FechaNacimiento, string(b.Sexo),
	).Scan(&affected)
	if err != nil {
		return false, fmt.Errorf("受益者の更新に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// Delete は受益者を削除する。削除行がない場合はfalseを返す。
func (r *PostgresBeneficiarioRepo) Delete(ctx context.Context, id int) (bool, error) {
	var affected int
	err := r.db.QueryRowContext(ctx,
		`SELECT sp_eliminar_beneficiario($1)`,
		id,
	).Scan(&affected)
	if err != nil {
		return false, fmt.Errorf("受益者の削除に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ BeneficiarioRepository = (*PostgresBeneficiarioRepo)(nil)
