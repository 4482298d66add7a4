package model

import "fmt"

// ErrorKind はエラーの分類。境界層がHTTPステータスへの変換に使用する。
type ErrorKind string

const (
	// KindValidation はクライアント入力が検証ルールに違反したことを示す。
	KindValidation ErrorKind = "validation"
	// KindNotFound は指定IDのリソースが存在しないことを示す。
	KindNotFound ErrorKind = "not_found"
)

// APIError はサービス層から返される分類済みエラー。
// 分類されていないエラーはすべて予期しないエラーとして扱われる。
type APIError struct {
	Code    string       // エラーコード
	Kind    ErrorKind    // 分類
	Message string       // 利用者向けの要約メッセージ
	Fields  []FieldError // 項目単位の検証エラー（検証エラーのみ）
	Details []string     // Fields以外の補足（リクエスト解析エラーなど）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Errors はエンベロープのerrorsに載せるメッセージ一覧を返す。
// 補足がない場合はnilを返す。
func (e *APIError) Errors() []string {
	if len(e.Fields) == 0 && len(e.Details) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.Fields)+len(e.Details))
	for _, fe := range e.Fields {
		out = append(out, fe.Field+": "+fe.Message())
	}
	out = append(out, e.Details...)
	return out
}

// 定義済みエラーコード
const (
	ErrCodeBeneficiarioNotFound = "BENEFICIARIO_NOT_FOUND"
	ErrCodeDocumentoNotFound    = "DOCUMENTO_NOT_FOUND"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
)

// NewBeneficiarioNotFoundError は受益者未検出エラーを生成する。
func NewBeneficiarioNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeBeneficiarioNotFound,
		Kind:    KindNotFound,
		Message: "Beneficiario no encontrado",
	}
}

// NewDocumentoNotFoundError は身分証明書種別の未検出エラーを生成する。
func NewDocumentoNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeDocumentoNotFound,
		Kind:    KindNotFound,
		Message: "Documento no encontrado",
	}
}

// NewValidationError は項目検証エラーを生成する。
func NewValidationError(fields []FieldError) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Kind:    KindValidation,
		Message: "Datos de entrada inválidos",
		Fields:  fields,
	}
}

// NewInvalidRequestError はリクエストの解析エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Kind:    KindValidation,
		Message: "Datos de entrada inválidos",
		Details: []string{reason},
	}
}
