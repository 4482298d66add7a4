// Package model はドメインモデルを定義する。
package model

// DocumentoIdentidad は身分証明書の種別（国ごとの書式ルール）を表す。
// カタログは運用側で管理され、このサービスからは読み取り専用。
type DocumentoIdentidad struct {
	ID          int
	Nombre      string
	Abreviatura string
	Pais        string
	Longitud    int  // 文書番号の必須桁数（> 0）
	SoloNumeros bool // trueの場合、文書番号は数字のみ
	Activo      bool // 非アクティブな種別は新規登録に使用できない
}
