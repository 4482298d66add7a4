// Package documento は身分証明書種別カタログの参照ロジックを提供する。
package documento

import (
	"context"
	"fmt"

	"github.com/hitoshi/beneficiarios/internal/model"
	"github.com/hitoshi/beneficiarios/internal/repository"
)

// Service は身分証明書種別カタログの読み取り専用サービス。
type Service struct {
	repo repository.DocumentoIdentidadRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.DocumentoIdentidadRepository) *Service {
	return &Service{repo: repo}
}

// ListActivos はアクティブな種別をストアド関数の返却順のまま返す。
func (s *Service) ListActivos(ctx context.Context) ([]*model.DocumentoIdentidad, error) {
	docs, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, fmt.Errorf("身分証明書種別一覧の取得に失敗しました: %w", err)
	}
	return docs, nil
}

// GetByID は指定IDの種別を返す。非アクティブな種別も返す。
// 存在しない場合はDOCUMENTO_NOT_FOUNDエラーを返す。
func (s *Service) GetByID(ctx context.Context, id int) (*model.DocumentoIdentidad, error) {
	doc, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, model.NewDocumentoNotFoundError()
	}
	return doc, nil
}

// Resolve は受益者の検証用に種別を解決する。
// IDが保存可能な範囲外、または存在しない場合はエラーではなくnilを返す。
// 範囲外のIDはDBに問い合わせない。
func (s *Service) Resolve(ctx context.Context, id int) (*model.DocumentoIdentidad, error) {
	if !model.ValidID(id) {
		return nil, nil
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("身分証明書種別の取得に失敗しました: %w", err)
	}
	return doc, nil
}
