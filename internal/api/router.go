package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/sanzuisann/my-chat-app/internal/api/recovery"
	"github.com/sanzuisann/my-chat-app/internal/metrics"
	"github.com/sanzuisann/my-chat-app/internal/services"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Characters    *services.CharacterService
	Users         *services.UserService
	History       *services.HistoryService
	Relationships *services.RelationshipService
	Constructs    *services.ConstructService
	Chat          *services.ChatService
}

// NewRouter registers every route and wraps the result in CORS for origins.
// health may be nil, in which case /health always reports healthy.
func NewRouter(svc Services, health HealthReporter, origins []string, log zerolog.Logger) http.Handler {
	root := mux.NewRouter()
	root.Use(recovery.New(log))
	root.Use(metrics.Middleware)

	// Characters
	characters := NewCharacterHandler(svc.Characters)
	handle(root, "/characters", characters.CreateCharacter, http.MethodPost)
	handle(root, "/characters", characters.ListCharacters, http.MethodGet)
	root.HandleFunc("/characters/{name}", characters.UpdateCharacter).Methods(http.MethodPut)
	root.HandleFunc("/characters/{characterId}", characters.GetCharacter).Methods(http.MethodGet)
	root.HandleFunc("/characters/{characterId}", characters.DeleteCharacter).Methods(http.MethodDelete)

	// Users
	users := NewUserHandler(svc.Users)
	handle(root, "/users", users.CreateUser, http.MethodPost)
	root.HandleFunc("/users/{userId}", users.GetUser).Methods(http.MethodGet)

	// Chat and history
	chat := NewChatHandler(svc.Chat)
	handle(root, "/chat", chat.Chat, http.MethodPost)
	history := NewHistoryHandler(svc.History)
	handle(root, "/history", history.AppendTurn, http.MethodPost)
	root.HandleFunc("/history/{userId}/{characterId}", history.ListTurns).Methods(http.MethodGet)

	// Relationships
	rel := NewRelationshipHandler(svc.Relationships)
	handle(root, "/evaluate-liking", rel.EvaluateLiking, http.MethodPost)
	handle(root, "/evaluate-trust", rel.EvaluateTrust, http.MethodPost)
	root.HandleFunc("/relationships/{userId}/{characterId}", rel.Standings).Methods(http.MethodGet)

	// Constructs; fixed paths before the id pattern.
	constructs := NewConstructHandler(svc.Constructs)
	handle(root, "/constructs", constructs.CreateConstructs, http.MethodPost)
	root.HandleFunc("/constructs/import", constructs.Import).Methods(http.MethodPost)
	root.HandleFunc("/constructs/export/{userId}/{characterId}", constructs.Export).Methods(http.MethodGet)
	root.HandleFunc("/constructs/{userId}/{characterId}", constructs.ListConstructs).Methods(http.MethodGet)
	root.HandleFunc("/constructs/{constructId}", constructs.DeleteConstruct).Methods(http.MethodDelete)

	// Health
	hh := NewHealthHandler(health)
	root.HandleFunc("/health", hh.CheckHealth).Methods(http.MethodGet)
	root.HandleFunc("/", hh.Root).Methods(http.MethodGet)
	root.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return cors(root)
}

// handle registers path with and without the trailing slash.
func handle(r *mux.Router, path string, f http.HandlerFunc, method string) {
	r.HandleFunc(path, f).Methods(method)
	r.HandleFunc(path+"/", f).Methods(method)
}
