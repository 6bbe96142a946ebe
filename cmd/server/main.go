package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"ranking_backend/internal/app/router"
	"ranking_backend/internal/feature/ranking/adapters/assistant"
	"ranking_backend/internal/feature/ranking/adapters/gsheet"
	rankinghandler "ranking_backend/internal/feature/ranking/transport/handler"
	"ranking_backend/internal/feature/ranking/usecase"
	platformhttp "ranking_backend/internal/platform/http"
)

func main() {
	// ローカル開発用の.envを読み込む（無ければ環境変数をそのまま使用）
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found. Using environment variables as-is.")
	}

	// 必須の設定チェック（開発中の注意喚起）
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set. Assistant calls will fail.")
	}
	if os.Getenv("SPREADSHEET_ID") == "" {
		log.Println("[WARN] SPREADSHEET_ID is not set. Ranking data fetch will fail.")
	}

	// Repository
	sheetCfg := gsheet.LoadConfig()
	sheetRepo := gsheet.NewSheetRanking(sheetCfg, platformhttp.NewHTTPClient(sheetCfg.Timeout))

	assistantCfg := assistant.LoadConfig()
	assistantRepo := assistant.NewAssistantClient(assistantCfg, platformhttp.NewHTTPClient(assistantCfg.Timeout))

	// Usecase
	queryUC := usecase.NewQueryUsecase(sheetRepo, assistantRepo)

	// Handler
	queryH := rankinghandler.NewQueryHandler(queryUC)

	// ルータ生成
	r := router.NewRouter(queryH)

	port := getEnv("PORT", "3000")
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
