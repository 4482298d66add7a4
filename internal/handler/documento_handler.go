package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/beneficiarios/internal/middleware"
	"github.com/hitoshi/beneficiarios/internal/model"
	"github.com/hitoshi/beneficiarios/internal/validation"
)

// DocumentoServiceInterface は身分証明書種別ハンドラーが必要とするサービスインターフェース。
type DocumentoServiceInterface interface {
	// ListActivos はアクティブな種別一覧を返す。
	ListActivos(ctx context.Context) ([]*model.DocumentoIdentidad, error)
	// GetByID は指定IDの種別を返す。
	GetByID(ctx context.Context, id int) (*model.DocumentoIdentidad, error)
}

// DocumentoHandler は身分証明書種別カタログのHTTPハンドラー。
type DocumentoHandler struct {
	service DocumentoServiceInterface
	errorResponder
}

// NewDocumentoHandler はDocumentoHandlerを生成する。
func NewDocumentoHandler(service DocumentoServiceInterface, exposeErrorDetail bool) *DocumentoHandler {
	return &DocumentoHandler{
		service:        service,
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
	}
}

// documentoResponse は身分証明書種別のAPIレスポンス。
// formatoはフォームに表示する書式のヒントで、クライアントが再計算しなくて済むようにする。
type documentoResponse struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Abreviatura string `json:"abreviatura"`
	Pais        string `json:"pais"`
	Longitud    int    `json:"longitud"`
	SoloNumeros bool   `json:"soloNumeros"`
	Formato     string `json:"formato"`
}

// ListActivos はアクティブな身分証明書種別の一覧を返す。
// GET /api/documentosidentidad/activos
func (h *DocumentoHandler) ListActivos(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListActivos(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]documentoResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, toDocumentoResponse(d))
	}
	middleware.WriteSuccess(w, http.StatusOK, resp, "Documentos obtenidos correctamente")
}

// GetByID は身分証明書種別の詳細を返す。
// GET /api/documentosidentidad/{id}
func (h *DocumentoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.writeInvalidRequest(w, "id inválido")
		return
	}

	doc, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, http.StatusOK, toDocumentoResponse(doc), "Documento obtenido correctamente")
}

// toDocumentoResponse はmodel.DocumentoIdentidadからAPIレスポンスに変換する。
func toDocumentoResponse(d *model.DocumentoIdentidad) documentoResponse {
	return documentoResponse{
		ID:          d.ID,
		Nombre:      d.Nombre,
		Abreviatura: d.Abreviatura,
		Pais:        d.Pais,
		Longitud:    d.Longitud,
		SoloNumeros: d.SoloNumeros,
		Formato:     validation.FormatHint(d),
	}
}

// parseIDParam はURLパラメータ{id}を正の整数として解析する。
func parseIDParam(r *http.Request) (int, bool) {
	return parseID(chi.URLParam(r, "id"))
}

// parseID はIDを正の整数として解析する。
// INTEGERの範囲を超える値は存在しないIDとしてサービス層が404にする。
func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
