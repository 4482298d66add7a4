package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/beneficiarios/internal/middleware"
	"github.com/hitoshi/beneficiarios/internal/model"
)

// BeneficiarioServiceInterface は受益者ハンドラーが必要とするサービスインターフェース。
type BeneficiarioServiceInterface interface {
	// List は絞り込み条件に一致する受益者一覧を返す。
	List(ctx context.Context, filter model.BeneficiarioFilter) ([]*model.Beneficiario, error)
	// Get は指定IDの受益者を返す。
	Get(ctx context.Context, id int) (*model.Beneficiario, error)
	// Create は受益者を作成し、採番されたIDを返す。
	Create(ctx context.Context, input model.BeneficiarioInput) (int, error)
	// Update は指定IDの受益者を全項目置換する。
	Update(ctx context.Context, id int, input model.BeneficiarioInput) error
	// Delete は指定IDの受益者を削除する。
	Delete(ctx context.Context, id int) error
	// Validate は保存せずに検証のみ行う。
	Validate(ctx context.Context, input model.BeneficiarioInput) ([]model.FieldError, error)
}

// BeneficiarioHandler は受益者管理のHTTPハンドラー。
type BeneficiarioHandler struct {
	service BeneficiarioServiceInterface
	errorResponder
}

// NewBeneficiarioHandler はBeneficiarioHandlerを生成する。
func NewBeneficiarioHandler(service BeneficiarioServiceInterface, exposeErrorDetail bool) *BeneficiarioHandler {
	return &BeneficiarioHandler{
		service:        service,
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
	}
}

// beneficiarioRequest は作成・更新・検証リクエストのボディ。
type beneficiarioRequest struct {
	Nombres              string `json:"nombres"`
	Apellidos            string `json:"apellidos"`
	DocumentoIdentidadID int    `json:"documentoIdentidadId"`
	NumeroDocumento      string `json:"numeroDocumento"`
	FechaNacimiento      string `json:"fechaNacimiento"`
	Sexo                 string `json:"sexo"`
}

// beneficiarioResponse は受益者のAPIレスポンス。
// documentoIdentidadは参照先が解決できない場合null。
type beneficiarioResponse struct {
	ID                   int                `json:"id"`
	Nombres              string             `json:"nombres"`
	Apellidos            string             `json:"apellidos"`
	DocumentoIdentidadID int                `json:"documentoIdentidadId"`
	NumeroDocumento      string             `json:"numeroDocumento"`
	FechaNacimiento      string             `json:"fechaNacimiento"`
	Sexo                 string             `json:"sexo"`
	DocumentoIdentidad   *documentoResponse `json:"documentoIdentidad"`
}

// validationResponse は検証エンドポイントのレスポンス。
type validationResponse struct {
	Valido  bool              `json:"valido"`
	Errores []fieldErrorEntry `json:"errores"`
}

// fieldErrorEntry は項目単位の検証エラー。
type fieldErrorEntry struct {
	Campo   string `json:"campo"`
	Codigo  string `json:"codigo"`
	Mensaje string `json:"mensaje"`
}

// List は受益者一覧を返す。
// GET /api/beneficiarios?nombre=&documentoIdentidadId=&sexo=
func (h *BeneficiarioHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, reason := parseBeneficiarioFilter(r)
	if reason != "" {
		h.writeInvalidRequest(w, reason)
		return
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]beneficiarioResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, toBeneficiarioResponse(b))
	}
	middleware.WriteSuccess(w, http.StatusOK, resp, "Beneficiarios obtenidos correctamente")
}

// Get は受益者の詳細を返す。
// GET /api/beneficiarios/{id}
func (h *BeneficiarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.writeInvalidRequest(w, "id inválido")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, http.StatusOK, toBeneficiarioResponse(b), "Beneficiario obtenido correctamente")
}

// Create は受益者を作成する。
// POST /api/beneficiarios
func (h *BeneficiarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/beneficiarios/"+strconv.Itoa(id))
	middleware.WriteSuccess(w, http.StatusCreated, id, "Beneficiario creado correctamente")
}

// Update は受益者を全項目置換で更新する。
// PUT /api/beneficiarios/{id}
func (h *BeneficiarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.writeInvalidRequest(w, "id inválido")
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	if err := h.service.Update(r.Context(), id, input); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess[any](w, http.StatusOK, nil, "Beneficiario actualizado correctamente")
}

// Delete は受益者を削除する。
// DELETE /api/beneficiarios/{id}
func (h *BeneficiarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.writeInvalidRequest(w, "id inválido")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess[any](w, http.StatusOK, nil, "Beneficiario eliminado correctamente")
}

// Validate は保存せずに入力を検証し、違反を項目ごとに返す。
// 検証結果にかかわらず200を返す。
// POST /api/beneficiarios/validar
func (h *BeneficiarioHandler) Validate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	fieldErrs, err := h.service.Validate(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := validationResponse{
		Valido:  len(fieldErrs) == 0,
		Errores: make([]fieldErrorEntry, 0, len(fieldErrs)),
	}
	for _, fe := range fieldErrs {
		resp.Errores = append(resp.Errores, fieldErrorEntry{
			Campo:   fe.Field,
			Codigo:  fe.Reason,
			Mensaje: fe.Message(),
		})
	}

	message := "Datos válidos"
	if !resp.Valido {
		message = "Datos de entrada inválidos"
	}
	middleware.WriteSuccess(w, http.StatusOK, resp, message)
}

// decodeInput はリクエストボディを解析する。失敗時は400を書き込みfalseを返す。
func (h *BeneficiarioHandler) decodeInput(w http.ResponseWriter, r *http.Request) (model.BeneficiarioInput, bool) {
	var req beneficiarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidRequest(w, "cuerpo de la solicitud inválido")
		return model.BeneficiarioInput{}, false
	}

	return model.BeneficiarioInput{
		Nombres:              req.Nombres,
		Apellidos:            req.Apellidos,
		DocumentoIdentidadID: req.DocumentoIdentidadID,
		NumeroDocumento:      req.NumeroDocumento,
		FechaNacimiento:      req.FechaNacimiento,
		Sexo:                 req.Sexo,
	}, true
}

// parseBeneficiarioFilter はクエリパラメータから絞り込み条件を組み立てる。
// 不正な値の場合は理由を返す。
func parseBeneficiarioFilter(r *http.Request) (model.BeneficiarioFilter, string) {
	q := r.URL.Query()
	filter := model.BeneficiarioFilter{
		Nombre: strings.TrimSpace(q.Get("nombre")),
	}

	if v := strings.TrimSpace(q.Get("documentoIdentidadId")); v != "" {
		id, ok := parseID(v)
		if !ok {
			return model.BeneficiarioFilter{}, "documentoIdentidadId inválido"
		}
		filter.DocumentoIdentidadID = id
	}

	if v := strings.TrimSpace(q.Get("sexo")); v != "" {
		sexo := model.Sexo(strings.ToUpper(v))
		if !sexo.Valid() {
			return model.BeneficiarioFilter{}, "sexo inválido"
		}
		filter.Sexo = sexo
	}

	return filter, ""
}

// toBeneficiarioResponse はmodel.BeneficiarioからAPIレスポンスに変換する。
func toBeneficiarioResponse(b *model.Beneficiario) beneficiarioResponse {
	resp := beneficiarioResponse{
		ID:                   b.ID,
		Nombres:              b.Nombres,
		Apellidos:            b.Apellidos,
		DocumentoIdentidadID: b.DocumentoIdentidadID,
		NumeroDocumento:      b.NumeroDocumento,
		FechaNacimiento:      b.FechaNacimiento.Format("2006-01-02"),
		Sexo:                 string(b.Sexo),
	}
	if b.DocumentoIdentidad != nil {
		doc := toDocumentoResponse(b.DocumentoIdentidad)
		resp.DocumentoIdentidad = &doc
	}
	return resp
}
