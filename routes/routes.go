package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mseongj/spaceflight-news/handlers"
	"github.com/mseongj/spaceflight-news/views"
)

// SetupRoutes는 기사 페이지, 헬스 체크, 메트릭, 정적 파일 라우트를 등록합니다.
// staticDir가 비어 있으면 정적 파일은 제공하지 않습니다.
func SetupRoutes(src handlers.ArticleSource, renderer *views.Renderer, corsOrigin, staticDir string) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestID, accessLog, enableCORS(corsOrigin))

	router.Handle("/", handlers.GetArticles(src, renderer)).Methods(http.MethodGet).Name("page")
	router.HandleFunc("/healthz", handlers.Healthz).Methods(http.MethodGet).Name("healthz")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	if staticDir != "" {
		router.PathPrefix("/static/").
			Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))).
			Name("static")
	}

	// mux는 Use 미들웨어를 매칭된 라우트에만 적용하므로 preflight를 위해 OPTIONS를 따로 받습니다
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Name("preflight")

	return router
}
