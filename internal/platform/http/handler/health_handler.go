// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName はルート情報に含めるサービス名です。
const ServiceName = "ranking-query-api"

// AvailableEndpoints は公開しているエンドポイントの一覧です。
// ルート情報と404レスポンスで共有します。
var AvailableEndpoints = []string{
	"GET /",
	"GET /health",
	"POST /query",
}

// Health はサービスヘルスチェック用の /health エンドポイントを処理します。
// 下流サービスの状態に関わらず、常に "healthy" と現在時刻を返します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root は稼働状況と利用可能なエンドポイント一覧を返します。
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   ServiceName,
		"endpoints": AvailableEndpoints,
	})
}

// NotFound は未定義ルートへのリクエストに対して、要求されたメソッドと
// パスをそのまま返す404ハンドラーです。
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":              "not_found",
		"message":            c.Request.Method + " " + c.Request.URL.Path + " は存在しません",
		"availableEndpoints": AvailableEndpoints,
	})
}
