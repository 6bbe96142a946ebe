package usecase

import (
	"context"
	"fmt"
	"strings"

	"ranking_backend/internal/feature/ranking/domain/entity"
)

const (
	// PromptHeader はアシスタントへ渡すランキングデータの前置きです。
	PromptHeader = "以下は企業ランキングのデータです。"
	// PromptQuestionPrefix はユーザーの質問文の前置きです。
	PromptQuestionPrefix = "質問: "
)

// RankingRepository はランキングデータを取得するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RankingRepository interface {
	// GetRecords はスプレッドシートの全データ行をシート上の行順で返します。
	GetRecords(ctx context.Context) ([]entity.Record, error)
}

// AssistantRepository は会話型アシスタントへの問い合わせインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type AssistantRepository interface {
	// GenerateAnswer はプロンプトに対するアシスタントの最終回答テキストを返します。
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// QueryUsecase はランキング質問応答のビジネスロジックを提供します。
type QueryUsecase struct {
	ranking   RankingRepository
	assistant AssistantRepository
}

// NewQueryUsecase はQueryUsecaseの新しいインスタンスを生成します。
func NewQueryUsecase(r RankingRepository, a AssistantRepository) *QueryUsecase {
	return &QueryUsecase{ranking: r, assistant: a}
}

// Ask は質問文を検証し、最新のランキングデータとともにアシスタントへ
// 問い合わせて回答テキストを返します。データはリクエストごとに再取得します。
func (u *QueryUsecase) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	records, err := u.ranking.GetRecords(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	// データ行ゼロは正常な空結果ではなく、データ未整備として扱う
	if len(records) == 0 {
		return "", fmt.Errorf("%w: sheet has no data rows", ErrDataUnavailable)
	}

	answer, err := u.assistant.GenerateAnswer(ctx, BuildPrompt(records, query))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssistantFailure, err)
	}
	return answer, nil
}

// BuildPrompt はランキングの一覧と質問文を1つのプロンプトに整形します。
//
// 形式:
//
//	以下は企業ランキングのデータです。
//	1位: Example Inc.
//	2位: ...
//
//	質問: <query>
func BuildPrompt(records []entity.Record, query string) string {
	var b strings.Builder
	b.WriteString(PromptHeader)
	b.WriteString("\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s位: %s\n", r.Rank, r.Company))
	}
	b.WriteString("\n")
	b.WriteString(PromptQuestionPrefix)
	b.WriteString(query)
	return b.String()
}
