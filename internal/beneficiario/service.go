// Package beneficiario は受益者の登録・更新・削除のドメインロジックを提供する。
//
// 作成と更新は必ず身分証明書種別の解決と検証を経てからリポジトリに渡す。
// このパッケージはログを出力しない。エラーの分類と記録はHTTP境界で行う。
package beneficiario

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/beneficiarios/internal/metrics"
	"github.com/hitoshi/beneficiarios/internal/model"
	"github.com/hitoshi/beneficiarios/internal/repository"
	"github.com/hitoshi/beneficiarios/internal/security"
	"github.com/hitoshi/beneficiarios/internal/validation"
)

// DocumentoResolver は入力の身分証明書種別IDを解決する。
// 未指定または存在しない場合はエラーではなくnilを返す。
type DocumentoResolver interface {
	Resolve(ctx context.Context, id int) (*model.DocumentoIdentidad, error)
}

// Service は受益者管理のサービス層。
type Service struct {
	repo    repository.BeneficiarioRepository
	docs    DocumentoResolver
	markup  security.MarkupDetector
	metrics metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(
	repo repository.BeneficiarioRepository,
	docs DocumentoResolver,
	markup security.MarkupDetector,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		repo:    repo,
		docs:    docs,
		markup:  markup,
		metrics: collector,
	}
}

// List は受益者一覧を返す。filterのゼロ値は全件を意味する。
// 順序はストアド関数の返却順を保つ。
func (s *Service) List(ctx context.Context, filter model.BeneficiarioFilter) ([]*model.Beneficiario, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("受益者一覧の取得に失敗しました: %w", err)
	}

	if filter == (model.BeneficiarioFilter{}) {
		return all, nil
	}

	filtered := make([]*model.Beneficiario, 0, len(all))
	for _, b := range all {
		if filter.Match(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// Get は指定IDの受益者を返す。存在しない場合はBENEFICIARIO_NOT_FOUNDエラーを返す。
func (s *Service) Get(ctx context.Context, id int) (*model.Beneficiario, error) {
	if !model.ValidID(id) {
		return nil, model.NewBeneficiarioNotFoundError()
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("受益者の取得に失敗しました: %w", err)
	}
	if b == nil {
		return nil, model.NewBeneficiarioNotFoundError()
	}
	return b, nil
}

// Create は入力を検証して受益者を作成し、採番されたIDを返す。
// 非アクティブな身分証明書種別での新規登録は拒否する。
// 検証エラーの場合、リポジトリは呼び出されない。
func (s *Service) Create(ctx context.Context, input model.BeneficiarioInput) (int, error) {
	b, fieldErrs, err := s.prepare(ctx, input, true)
	if err != nil {
		return 0, err
	}
	if len(fieldErrs) > 0 {
		s.recordValidationFailures(fieldErrs)
		return 0, model.NewValidationError(fieldErrs)
	}

	id, err := s.repo.Create(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("受益者の作成に失敗しました: %w", err)
	}

	s.metrics.RecordMutation(metrics.OpCreate)
	return id, nil
}

// Update は指定IDの受益者を入力値で全項目置換する。
// 既存データが非アクティブな種別を参照し続けられるよう、更新では種別のアクティブ判定を行わない。
// 対象が存在しない場合はBENEFICIARIO_NOT_FOUNDエラーを返し、何も変更しない。
func (s *Service) Update(ctx context.Context, id int, input model.BeneficiarioInput) error {
	b, fieldErrs, err := s.prepare(ctx, input, false)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		s.recordValidationFailures(fieldErrs)
		return model.NewValidationError(fieldErrs)
	}
	if !model.ValidID(id) {
		return model.NewBeneficiarioNotFoundError()
	}

	b.ID = id
	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		return fmt.Errorf("受益者の更新に失敗しました: %w", err)
	}
	if !updated {
		return model.NewBeneficiarioNotFoundError()
	}

	s.metrics.RecordMutation(metrics.OpUpdate)
	return nil
}

// Delete は指定IDの受益者を物理削除する。
// 存在しない場合はBENEFICIARIO_NOT_FOUNDエラーを返す。
func (s *Service) Delete(ctx context.Context, id int) error {
	if !model.ValidID(id) {
		return model.NewBeneficiarioNotFoundError()
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("受益者の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewBeneficiarioNotFoundError()
	}

	s.metrics.RecordMutation(metrics.OpDelete)
	return nil
}

// Validate は作成時と同じ検証を保存せずに実行し、違反をすべて返す。
// 違反がない場合は空スライスを返す。
func (s *Service) Validate(ctx context.Context, input model.BeneficiarioInput) ([]model.FieldError, error) {
	_, fieldErrs, err := s.prepare(ctx, input, true)
	if err != nil {
		return nil, err
	}
	if fieldErrs == nil {
		fieldErrs = []model.FieldError{}
	}
	return fieldErrs, nil
}

// prepare は入力を正規化し、種別を解決して検証する。
// 検証に通った場合のみ保存用のBeneficiarioを返す。
func (s *Service) prepare(ctx context.Context, input model.BeneficiarioInput, requireActive bool) (*model.Beneficiario, []model.FieldError, error) {
	input = s.normalize(input)

	doc, err := s.docs.Resolve(ctx, input.DocumentoIdentidadID)
	if err != nil {
		return nil, nil, err
	}

	fieldErrs := validation.Validate(input, doc)
	fieldErrs = append(fieldErrs, s.checkMarkup(input)...)
	if requireActive && doc != nil && !doc.Activo {
		fieldErrs = append(fieldErrs, model.FieldError{
			Field:  model.FieldDocumentoIdentidadID,
			Reason: model.ReasonInactive,
		})
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	// 検証済みのため解析エラーは発生しない
	fecha, _ := model.ParseFecha(input.FechaNacimiento)

	return &model.Beneficiario{
		Nombres:              input.Nombres,
		Apellidos:            input.Apellidos,
		DocumentoIdentidadID: doc.ID,
		NumeroDocumento:      input.NumeroDocumento,
		FechaNacimiento:      fecha,
		Sexo:                 model.Sexo(input.Sexo),
	}, nil, nil
}

// normalize は性別を大文字にそろえる。
// 氏名と文書番号は入力どおりに保存するため加工しない。
func (s *Service) normalize(input model.BeneficiarioInput) model.BeneficiarioInput {
	input.Sexo = strings.ToUpper(strings.TrimSpace(input.Sexo))
	return input
}

// checkMarkup はHTMLマークアップを含む氏名項目を拒否する。
func (s *Service) checkMarkup(input model.BeneficiarioInput) []model.FieldError {
	var errs []model.FieldError
	if s.markup.ContainsMarkup(input.Nombres) {
		errs = append(errs, model.FieldError{Field: model.FieldNombres, Reason: model.ReasonInvalid})
	}
	if s.markup.ContainsMarkup(input.Apellidos) {
		errs = append(errs, model.FieldError{Field: model.FieldApellidos, Reason: model.ReasonInvalid})
	}
	return errs
}

func (s *Service) recordValidationFailures(fieldErrs []model.FieldError) {
	for _, fe := range fieldErrs {
		s.metrics.RecordValidationFailure(fe.Field, fe.Reason)
	}
}
