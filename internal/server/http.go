package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/types"
)

var pathRegexp = regexp.MustCompile(`^/v1/evaluations(?:/([^/]+))?$`)

const maxRequestBodyBytes = 1 << 20

const (
	succeededState = "SUCCEEDED"
	failedState    = "FAILED"
)

type evaluation struct {
	Name       string    `json:"name"`
	Expression string    `json:"expression"`
	State      string    `json:"state"`
	Result     *int64    `json:"result,omitempty"`
	Error      any       `json:"error,omitempty"`
	CreateTime time.Time `json:"createTime"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m := pathRegexp.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if id := m[1]; id != "" {
		switch r.Method {
		case http.MethodGet:
			h.getEvaluation(w, r, id)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		h.listEvaluations(w, r)
		return

	case http.MethodPost:
		h.createEvaluation(w, r)
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

type createEvaluationRequest struct {
	Expression *string `json:"expression"`
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createEvaluationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Expression == nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := fmt.Sprintf("%016x", atomic.AddUint64(&h.idBase, 1))
	ev := &evaluation{
		Name:       r.URL.Path + "/" + id,
		Expression: *req.Expression,
		CreateTime: time.Now().UTC(),
	}
	h.evaluate(ev)
	h.evaluations.Store(id, ev)

	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) evaluate(ev *evaluation) {
	expr, err := expression.ParseExpr(ev.Expression)
	if err == nil {
		var v int64
		if v, err = expr.Evaluate(); err == nil {
			ev.State = succeededState
			ev.Result = &v
			return
		}
	}

	ev.State = failedState
	var exception types.Exception
	if errors.As(err, &exception) {
		ev.Error = exception.Exception()
	} else {
		log.Printf("failed to evaluate expression: %v", err)
		ev.Error = err.Error()
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*evaluation)); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

// NewHTTPHandler serves:
//
//	POST /v1/evaluations      {"expression": "..."}
//	GET  /v1/evaluations
//	GET  /v1/evaluations/{id}
func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
