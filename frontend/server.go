package frontend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"shopping-cart/view"
)

// Server turns form posts into clicks on the rendered page.
type Server struct {
	page *view.Page
	log  logrus.FieldLogger
}

func New(page *view.Page, log logrus.FieldLogger) *Server {
	return &Server{page: page, log: log}
}

// Handler returns the router with every page interaction.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("cart-frontend"))

	r.HandleFunc("/", s.index).Methods("GET")
	r.HandleFunc("/inventory/{id:[0-9]+}/{action:increment|decrement|add}", s.inventoryAction).Methods("POST")
	r.HandleFunc("/cart/{id:[0-9]+}/{action:edit|delete}", s.cartAction).Methods("POST")
	r.HandleFunc("/edit/save", s.saveEdit).Methods("POST")
	r.HandleFunc("/checkout", s.checkout).Methods("POST")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
	return r
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.page.WriteHTML(&buf); err != nil {
		s.log.WithError(err).Error("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) inventoryAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	row, ok := s.page.InventoryRow(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch vars["action"] {
	case "increment":
		row.Increment()
	case "decrement":
		row.Decrement()
	case "add":
		row.Add()
	}
	backToPage(w, r)
}

func (s *Server) cartAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	row, ok := s.page.CartRow(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch vars["action"] {
	case "edit":
		row.Edit()
	case "delete":
		row.Delete()
	}
	backToPage(w, r)
}

func (s *Server) saveEdit(w http.ResponseWriter, r *http.Request) {
	form, ok := s.page.EditForm()
	if !ok {
		http.Error(w, "no item is being edited", http.StatusConflict)
		return
	}
	if err := form.Save(r.FormValue("amount")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	backToPage(w, r)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	s.page.ClickCheckout()
	backToPage(w, r)
}

func backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
