package model

import (
	"fmt"
	"strings"
	"time"
)

// Sexo は受益者の性別を表す。
type Sexo string

const (
	// SexoMasculino は男性。
	SexoMasculino Sexo = "M"
	// SexoFemenino は女性。
	SexoFemenino Sexo = "F"
)

// Valid は定義済みの値かどうかを返す。
func (s Sexo) Valid() bool {
	return s == SexoMasculino || s == SexoFemenino
}

// Beneficiario は登録済みの受益者を表す。
// DocumentoIdentidadはLEFT JOINで解決され、参照先が存在しない場合はnil。
type Beneficiario struct {
	ID                   int
	Nombres              string
	Apellidos            string
	DocumentoIdentidadID int
	NumeroDocumento      string
	FechaNacimiento      time.Time
	Sexo                 Sexo
	DocumentoIdentidad   *DocumentoIdentidad
}

// BeneficiarioInput は作成・更新リクエストの入力値。
// 更新は全項目置換のため、省略された項目は以前の値を引き継がない。
type BeneficiarioInput struct {
	Nombres              string
	Apellidos            string
	DocumentoIdentidadID int
	NumeroDocumento      string
	FechaNacimiento      string
	Sexo                 string
}

// fechaLayouts はFechaNacimientoとして受け付ける書式。
// フロントエンドの<input type="date">はYYYY-MM-DDを送る。
var fechaLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseFecha は生年月日文字列を暦日として解析する。
// 時刻部分は切り捨て、UTCの0時に正規化する。
func ParseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// BeneficiarioFilter は一覧取得時の絞り込み条件。ゼロ値は全件を意味する。
type BeneficiarioFilter struct {
	Nombre               string // 名前または姓の部分一致（大文字小文字を区別しない）
	DocumentoIdentidadID int
	Sexo                 Sexo
}

// Match は受益者が絞り込み条件に一致するかを返す。
func (f BeneficiarioFilter) Match(b *Beneficiario) bool {
	if f.Nombre != "" {
		q := strings.ToLower(f.Nombre)
		if !strings.Contains(strings.ToLower(b.Nombres), q) &&
			!strings.Contains(strings.ToLower(b.Apellidos), q) {
			return false
		}
	}
	if f.DocumentoIdentidadID != 0 && b.DocumentoIdentidadID != f.DocumentoIdentidadID {
		return false
	}
	if f.Sexo != "" && b.Sexo != f.Sexo {
		return false
	}
	return true
}
