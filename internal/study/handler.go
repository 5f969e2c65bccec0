package study

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"study-gateway/internal/apierror"
)

const maxBodyBytes = 1 << 20

const msgInvalidJSON = "O corpo da requisição deve ser um objeto JSON válido."

type StudyRequest struct {
	Question string `json:"question" jsonschema:"required,example=O que é derivada?" jsonschema_description:"Pergunta do estudante"`
}

type HealthResponse struct {
	Status    string `json:"status" jsonschema:"example=ok"`
	Timestamp int64  `json:"timestamp" jsonschema_description:"Instante da resposta em milissegundos desde a época Unix"`
}

type Handler struct {
	svc *Service
	log hclog.Logger
	now func() time.Time
}

func NewHandler(svc *Service, log hclog.Logger) *Handler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Handler{svc: svc, log: log, now: time.Now}
}

// Study atende POST /study.
func (h *Handler) Study(w http.ResponseWriter, r *http.Request) {
	question, err := decodeQuestion(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		apierror.Write(w, err)
		return
	}

	out, err := h.svc.Ask(r.Context(), question)
	if err != nil {
		e := apierror.From(err)
		if e.Kind != apierror.KindValidation {
			h.log.Error("falha ao gerar explicação", "kind", e.Kind.String(), "error", err)
		}
		apierror.Write(w, e)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Health atende GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UnixMilli(),
	})
}

// decodeQuestion aceita só {"question": string}. Corpo vazio conta como
// pergunta ausente.
func decodeQuestion(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", apierror.Validation("O corpo da requisição é grande demais.")
		}
		return "", apierror.Validation(msgInvalidJSON)
	}
	if len(raw) == 0 {
		return "", nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", apierror.Validation(msgInvalidJSON)
	}

	var unknown []string
	for name := range fields {
		if name != "question" {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return "", apierror.Validation("property " + unknown[0] + " should not exist")
	}

	rawQuestion, ok := fields["question"]
	if !ok || string(rawQuestion) == "null" {
		return "", nil
	}
	var question string
	if err := json.Unmarshal(rawQuestion, &question); err != nil {
		return "", apierror.Validation(apierror.MsgQuestionString)
	}
	return question, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
