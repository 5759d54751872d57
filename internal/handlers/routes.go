package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the web view on r.
func RegisterRoutes(r *mux.Router, pages *PageHandler, chat *ChatHandler, logs *LogHandler) {
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", StaticHandler()))
	r.HandleFunc("/health", chat.Health).Methods("GET")
	r.HandleFunc("/log", logs.LogClientEvent).Methods("POST")

	r.HandleFunc("/", chat.ShowChatPage).Methods("GET")
	r.HandleFunc("/send", chat.SendMessage).Methods("POST")
	r.HandleFunc("/clear", chat.ClearHistory).Methods("POST")
	r.HandleFunc("/model", chat.SelectModel).Methods("POST")
	r.HandleFunc("/refresh", chat.Refresh).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(pages.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(pages.MethodNotAllowed)
}
