package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/teams/{teamID}/matches", handler.ListMatchesByTeam)
	mux.HandleFunc("GET /v1/matches/{matchID}/ratings", handler.ListMatchRatings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedMatchRoutes(mux, handler, verifier)
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedResultRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("POST /v1/matches/{matchID}/start", RequireAuth(verifier, http.HandlerFunc(handler.StartMatch)))
	mux.Handle("POST /v1/matches/{matchID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/invites", RequireAuth(verifier, http.HandlerFunc(handler.InviteTeam)))
	mux.Handle("POST /v1/matches/{matchID}/challenges", RequireAuth(verifier, http.HandlerFunc(handler.RequestToPlay)))
	mux.Handle("POST /v1/match-requests/{requestID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptMatchRequest)))
	mux.Handle("POST /v1/match-requests/{requestID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineMatchRequest)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinMatch)))
	mux.Handle("GET /v1/matches/{matchID}/join-status", RequireAuth(verifier, http.HandlerFunc(handler.MyJoinStatus)))
	mux.Handle("POST /v1/match-players/{joinID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveJoin)))
	mux.Handle("POST /v1/match-players/{joinID}/decline", RequireAuth(verifier, http.HandlerFunc(handler.DeclineJoin)))
}

func registerAuthorizedResultRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/score", RequireAuth(verifier, http.HandlerFunc(handler.SubmitScore)))
	mux.Handle("GET /v1/matches/{matchID}/score", RequireAuth(verifier, http.HandlerFunc(handler.GetScoreStatus)))
	mux.Handle("POST /v1/matches/{matchID}/motm-votes", RequireAuth(verifier, http.HandlerFunc(handler.VoteMotm)))
	mux.Handle("POST /v1/matches/{matchID}/ratings", RequireAuth(verifier, http.HandlerFunc(handler.SubmitRatings)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListNotifications)))
	mux.Handle("POST /v1/notifications/{notificationID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationRead)))
}
