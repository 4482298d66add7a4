package model

import (
	"fmt"
	"strings"
)

// 入力項目名。JSONのキーと一致させ、クライアントがそのまま対応付けられるようにする。
const (
	FieldNombres              = "nombres"
	FieldApellidos            = "apellidos"
	FieldDocumentoIdentidadID = "documentoIdentidadId"
	FieldNumeroDocumento      = "numeroDocumento"
	FieldFechaNacimiento      = "fechaNacimiento"
	FieldSexo                 = "sexo"
)

// 検証エラーの理由コード。長さ違反は "length:<桁数>"、
// 上限超過は "max-length:<上限>" の形式をとる。
const (
	ReasonRequired        = "required"
	ReasonNumericOnly     = "numeric-only"
	ReasonInactive        = "inactive"
	ReasonInvalid         = "invalid"
	reasonLengthPrefix    = "length:"
	reasonMaxLengthPrefix = "max-length:"
)

// 保存先カラムの文字数上限。
const (
	// MaxNombreLength は nombres / apellidos の上限（VARCHAR(100)）。
	MaxNombreLength = 100
	// MaxLongitudDocumento は種別の桁数の上限（numero_documento VARCHAR(20)）。
	MaxLongitudDocumento = 20
)

// FieldError は (項目名, 理由コード) の組。
type FieldError struct {
	Field  string
	Reason string
}

// LengthReason は長さ違反の理由コードを返す。
func LengthReason(expected int) string {
	return fmt.Sprintf("%s%d", reasonLengthPrefix, expected)
}

// MaxLengthReason は文字数上限超過の理由コードを返す。
func MaxLengthReason(limit int) string {
	return fmt.Sprintf("%s%d", reasonMaxLengthPrefix, limit)
}

// String は "campo: codigo" 形式の文字列を返す。
func (fe FieldError) String() string {
	return fe.Field + ": " + fe.Reason
}

// Message はフォームに表示する利用者向けメッセージを返す。
func (fe FieldError) Message() string {
	if n, ok := strings.CutPrefix(fe.Reason, reasonLengthPrefix); ok {
		return fmt.Sprintf("El documento debe tener exactamente %s caracteres", n)
	}
	if n, ok := strings.CutPrefix(fe.Reason, reasonMaxLengthPrefix); ok {
		return fmt.Sprintf("Debe tener como máximo %s caracteres", n)
	}

	switch fe.Reason {
	case ReasonNumericOnly:
		return "El documento solo debe contener números"
	case ReasonInactive:
		return "El tipo de documento no está activo"
	case ReasonInvalid:
		switch fe.Field {
		case FieldSexo:
			return "El sexo debe ser M o F"
		case FieldNombres, FieldApellidos:
			return "No se permiten etiquetas HTML"
		}
		return "Valor inválido"
	}

	switch fe.Field {
	case FieldNombres:
		return "Los nombres son requeridos"
	case FieldApellidos:
		return "Los apellidos son requeridos"
	case FieldDocumentoIdentidadID:
		return "Selecciona un tipo de documento"
	case FieldNumeroDocumento:
		return "El número de documento es requerido"
	case FieldFechaNacimiento:
		return "La fecha de nacimiento es requerida"
	}
	return "Campo requerido"
}
