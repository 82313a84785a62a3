package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ixlander/ai-mcp-agent/src/json"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Status   string `json:"status"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type example struct {
	Query       string `json:"query"`
	Description string `json:"description"`
}

var exampleQueries = []example{
	{Query: "Покажи все продукты", Description: "Get all products"},
	{Query: "Покажи продукты в категории Электроника", Description: "Get products in Electronics category"},
	{Query: "Какая средняя цена продуктов?", Description: "Get average product price"},
	{Query: "Найди товар с ID 1", Description: "Get product by ID"},
	{Query: "Посчитай скидку 15% от 50000", Description: "Calculate a 15% discount"},
}

// HTTPHandler exposes the agent over REST: a query endpoint, a health
// check and the example queries.
func (a *Agent) HTTPHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/agent/query", a.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/examples", a.handleExamples).Methods(http.MethodGet)
	return r
}

func (a *Agent) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: "API is running"})
}

func (a *Agent) handleQuery(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request payload"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "query must not be empty"})
		return
	}

	requestID := uuid.NewString()
	a.log("request %s: %s", requestID, req.Query)

	response, err := a.ProcessQuery(r.Context(), req.Query)
	if err != nil {
		a.log("request %s failed: %v", requestID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: "Error processing query: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:    req.Query,
		Response: response,
		Status:   "success",
	})
}

func (a *Agent) handleExamples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"examples": exampleQueries})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ServeHTTP runs the API server until ctx is canceled, then shuts down
// gracefully.
func (a *Agent) ServeHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = ":8000"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: a.HTTPHandler(),
	}

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		close(done)
	}()

	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
