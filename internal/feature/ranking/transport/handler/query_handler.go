// Package handler はrankingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ranking_backend/internal/feature/ranking/transport/http/dto"
	"ranking_backend/internal/feature/ranking/usecase"
)

// queryExample は400レスポンスに含めるリクエストボディの例です。
const queryExample = `{"query": "1位の企業はどこですか？"}`

// QueryUsecase はランキング質問応答のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QueryUsecase interface {
	Ask(ctx context.Context, query string) (string, error)
}

// QueryHandler はランキング質問のHTTPリクエストを処理します。
type QueryHandler struct {
	uc QueryUsecase
}

// NewQueryHandler は指定されたusecaseでQueryHandlerの新しいインスタンスを生成します。
func NewQueryHandler(uc QueryUsecase) *QueryHandler {
	return &QueryHandler{uc: uc}
}

// Query は質問文を受け取り、ランキングデータを踏まえたアシスタントの回答をJSONで返します。
//
// エンドポイント: POST /query
// Content-Type: application/json
// ボディ: {"query": string}
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("クエリリクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		h.respondValidationError(c)
		return
	}

	answer, err := h.uc.Ask(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyQuery):
			slog.Warn("空のクエリを受信", "remote_addr", c.ClientIP())
			h.respondValidationError(c)
		case errors.Is(err, usecase.ErrDataUnavailable):
			slog.Error("ランキングデータの取得に失敗", "error", err)
			c.JSON(http.StatusInternalServerError, dto.DataErrorResponse{
				Error:   "data_unavailable",
				Message: "ランキングデータを取得できませんでした",
			})
		default:
			slog.Error("クエリの処理に失敗", "error", err)
			c.JSON(http.StatusInternalServerError, dto.ProcessingErrorResponse{
				Success:   false,
				Error:     "processing_failed",
				Message:   err.Error(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{
		Success:   true,
		Answer:    answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *QueryHandler) respondValidationError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:   "invalid_request",
		Message: "queryは必須の文字列です",
		Example: queryExample,
	})
}
