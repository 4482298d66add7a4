package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/beneficiarios/internal/model"
)

// --- モック定義 ---

// mockDocumentoService はDocumentoServiceInterfaceのモック実装。
type mockDocumentoService struct {
	listActivosFn func(ctx context.Context) ([]*model.DocumentoIdentidad, error)
	getByIDFn     func(ctx context.Context, id int) (*model.DocumentoIdentidad, error)
}

func (m *mockDocumentoService) ListActivos(ctx context.Context) ([]*model.DocumentoIdentidad, error) {
	if m.listActivosFn != nil {
		return m.listActivosFn(ctx)
	}
	return nil, nil
}

func (m *mockDocumentoService) GetByID(ctx context.Context, id int) (*model.DocumentoIdentidad, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.NewDocumentoNotFoundError()
}

// mockBeneficiarioService はBeneficiarioServiceInterfaceのモック実装。
type mockBeneficiarioService struct {
	listFn     func(ctx context.Context, filter model.BeneficiarioFilter) ([]*model.Beneficiario, error)
	getFn      func(ctx context.Context, id int) (*model.Beneficiario, error)
	createFn   func(ctx context.Context, input model.BeneficiarioInput) (int, error)
	updateFn   func(ctx context.Context, id int, input model.BeneficiarioInput) error
	deleteFn   func(ctx context.Context, id int) error
	validateFn func(ctx context.Context, input model.BeneficiarioInput) ([]model.FieldError, error)
}

func (m *mockBeneficiarioService) List(ctx context.Context, filter model.BeneficiarioFilter) ([]*model.Beneficiario, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockBeneficiarioService) Get(ctx context.Context, id int) (*model.Beneficiario, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewBeneficiarioNotFoundError()
}

func (m *mockBeneficiarioService) Create(ctx context.Context, input model.BeneficiarioInput) (int, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return 0, nil
}

func (m *mockBeneficiarioService) Update(ctx context.Context, id int, input model.BeneficiarioInput) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil
}

func (m *mockBeneficiarioService) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockBeneficiarioService) Validate(ctx context.Context, input model.BeneficiarioInput) ([]model.FieldError, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, input)
	}
	return []model.FieldError{}, nil
}

// mockPinger はrepository.Pingerのモック実装。
type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

// --- テストヘルパー ---

// testEnvelope はレスポンスのエンベロープをdata未解析のまま保持する。
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeEnvelope はレスポンスボディをエンベロープとしてパースするヘルパー。
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

// decodeData はエンベロープのdataを指定型にパースするヘルパー。
func decodeData(t *testing.T, env testEnvelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data %s: %v", string(env.Data), err)
	}
}

// dni はテストで使うDNI種別。
func dni() *model.DocumentoIdentidad {
	return &model.DocumentoIdentidad{
		ID:          1,
		Nombre:      "Documento Nacional de Identidad",
		Abreviatura: "DNI",
		Pais:        "Perú",
		Longitud:    8,
		SoloNumeros: true,
		Activo:      true,
	}
}
