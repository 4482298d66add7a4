// Package validation は受益者入力の検証ルールを提供する。
//
// Validateは副作用を持たない純粋関数で、作成・更新処理と
// クライアント向けの事前検証エンドポイントの両方から同じルールとして呼ばれる。
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/beneficiarios/internal/model"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Validate は入力を身分証明書種別の書式ルールと必須項目ルールで検証する。
// docはinput.DocumentoIdentidadIDを解決した結果で、未解決の場合はnilを渡す。
// すべてのルールを独立に評価し、違反をすべて返す。違反がなければnilを返す。
func Validate(input model.BeneficiarioInput, doc *model.DocumentoIdentidad) []model.FieldError {
	var errs []model.FieldError

	errs = append(errs, checkNombre(model.FieldNombres, input.Nombres)...)
	errs = append(errs, checkNombre(model.FieldApellidos, input.Apellidos)...)
	if doc == nil {
		errs = append(errs, model.FieldError{Field: model.FieldDocumentoIdentidadID, Reason: model.ReasonRequired})
	}
	if strings.TrimSpace(input.NumeroDocumento) == "" {
		errs = append(errs, model.FieldError{Field: model.FieldNumeroDocumento, Reason: model.ReasonRequired})
	}
	if _, err := model.ParseFecha(input.FechaNacimiento); err != nil {
		errs = append(errs, model.FieldError{Field: model.FieldFechaNacimiento, Reason: model.ReasonRequired})
	}

	if doc != nil {
		errs = append(errs, checkNumeroDocumento(input.NumeroDocumento, doc)...)
	}

	if !model.Sexo(input.Sexo).Valid() {
		errs = append(errs, model.FieldError{Field: model.FieldSexo, Reason: model.ReasonInvalid})
	}

	return errs
}

// checkNombre は氏名項目の必須と文字数上限を検証する。
func checkNombre(field, value string) []model.FieldError {
	if strings.TrimSpace(value) == "" {
		return []model.FieldError{{Field: field, Reason: model.ReasonRequired}}
	}
	if utf8.RuneCountInString(value) > model.MaxNombreLength {
		return []model.FieldError{{Field: field, Reason: model.MaxLengthReason(model.MaxNombreLength)}}
	}
	return nil
}

// checkNumeroDocumento は文書番号の書式（桁数、数字のみ）を検証する。
// 桁数の検証を先に行うが、両方違反した場合は両方を返す。
// 桁数は文字数（rune数）で比較する。
func checkNumeroDocumento(numero string, doc *model.DocumentoIdentidad) []model.FieldError {
	var errs []model.FieldError

	if utf8.RuneCountInString(numero) != doc.Longitud {
		errs = append(errs, model.FieldError{
			Field:  model.FieldNumeroDocumento,
			Reason: model.LengthReason(doc.Longitud),
		})
	}

	// 空文字は必須ルール側で報告済みのため、数字のみルールの対象外
	if doc.SoloNumeros && numero != "" && !digitsOnly.MatchString(numero) {
		errs = append(errs, model.FieldError{
			Field:  model.FieldNumeroDocumento,
			Reason: model.ReasonNumericOnly,
		})
	}

	return errs
}

// FormatHint はフォームに表示する文書番号の書式ヒントを返す。
// 例: "8 caracteres, solo números"
func FormatHint(doc *model.DocumentoIdentidad) string {
	if doc == nil {
		return ""
	}
	hint := fmt.Sprintf("%d caracteres", doc.Longitud)
	if doc.SoloNumeros {
		hint += ", solo números"
	}
	return hint
}
