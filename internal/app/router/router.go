package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	rankinghandler "ranking_backend/internal/feature/ranking/transport/handler"
	platformhandler "ranking_backend/internal/platform/http/handler"
)

func NewRouter(query *rankinghandler.QueryHandler) *gin.Engine {
	r := gin.Default()

	// Webフロントエンドからの呼び出しを全面的に許可する
	// プリフライト（OPTIONS）は200で即応答
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// 稼働情報
	r.GET("/", platformhandler.Root)
	// 導通確認用
	r.GET("/health", platformhandler.Health)
	// ランキング質問応答
	r.POST("/query", query.Query)

	// 未定義ルートはメソッドとパスをエコーして404
	r.NoRoute(platformhandler.NotFound)

	return r
}
