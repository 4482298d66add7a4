// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/beneficiarios/internal/model"
)

// DocumentoIdentidadRepository は身分証明書種別カタログの永続化インターフェース。
type DocumentoIdentidadRepository interface {
	// ListActivos はアクティブな種別を返す。順序はストアド関数の返却順に従う。
	ListActivos(ctx context.Context) ([]*model.DocumentoIdentidad, error)

	// FindByID は指定IDの種別をアクティブかどうかに関わらず取得する。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.DocumentoIdentidad, error)

	// Upsert は (abreviatura, pais) をキーに種別を作成または更新する。
	// カタログ投入コマンドからのみ使用する。
	Upsert(ctx context.Context, doc *model.DocumentoIdentidad) error
}

// BeneficiarioRepository は受益者データの永続化インターフェース。
// 各操作は単一の問い合わせで完結し、連鎖削除やイベント発行は行わない。
type BeneficiarioRepository interface {
	// List は全受益者を身分証明書種別とLEFT JOINして返す。
	List(ctx context.Context) ([]*model.Beneficiario, error)

	// FindByID は指定IDの受益者を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.Beneficiario, error)

	// Create は受益者を作成し、採番されたIDを返す。
	// IDはINSERTと同一の文で返されるため、並行作成でも取り違えない。
	Create(ctx context.Context, b *model.Beneficiario) (int, error)

	// Update は受益者を全項目置換で更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, b *model.Beneficiario) (bool, error)

	// Delete は受益者を物理削除する。対象が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id int) (bool, error)
}

// Pinger はDB疎通確認のインターフェース。ヘルスチェックで使用する。
type Pinger interface {
	PingContext(ctx context.Context) error
}
