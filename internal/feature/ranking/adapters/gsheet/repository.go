package gsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"ranking_backend/internal/feature/ranking/domain/entity"
	"ranking_backend/internal/feature/ranking/usecase"
)

// SheetRanking はGoogle SheetsのCSVエクスポートからランキングデータを取得する
// RankingRepository実装です。
type SheetRanking struct {
	cfg    Config
	client *http.Client
}

// SheetRankingがRankingRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.RankingRepository = (*SheetRanking)(nil)

// NewSheetRanking は指定された設定とHTTPクライアントでSheetRankingの新しいインスタンスを生成します。
func NewSheetRanking(cfg Config, client *http.Client) *SheetRanking {
	return &SheetRanking{cfg: cfg, client: client}
}

// GetRecords はgvizエンドポイントからCSVを取得し、順位・企業名のレコードを
// シート上の行順で返します。データ行が無い場合は空スライスを返します
// （空を異常とみなすかは呼び出し元の判断）。
func (s *SheetRanking) GetRecords(ctx context.Context) ([]entity.Record, error) {
	q := url.Values{}
	// CSV形式での出力を要求
	q.Set("tqx", "out:csv")
	q.Set("sheet", s.cfg.SheetName)

	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s", s.cfg.BaseURL, s.cfg.SpreadsheetID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("gviz http %d", res.StatusCode)
	}

	// gvizは全フィールドを引用符付きで返すため、標準のCSVリーダーで読み取る
	reader := csv.NewReader(res.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return []entity.Record{}, nil
	}

	// 先頭行をヘッダーとして列位置を特定する。見つからない列は空文字で埋める
	rankIdx, companyIdx := locateColumns(rows[0])

	records := make([]entity.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, entity.Record{
			Rank:    fieldAt(row, rankIdx),
			Company: fieldAt(row, companyIdx),
		})
	}
	return records, nil
}

// locateColumns はヘッダー行から"rank"・"company"を含む列の位置を返します。
// 照合は大文字小文字を区別しない部分一致です。見つからない場合は-1を返します。
func locateColumns(header []string) (rankIdx, companyIdx int) {
	rankIdx, companyIdx = -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case rankIdx < 0 && strings.Contains(name, "rank"):
			rankIdx = i
		case companyIdx < 0 && strings.Contains(name, "company"):
			companyIdx = i
		}
	}
	return rankIdx, companyIdx
}

// fieldAt は行の指定位置のフィールドを返します。位置が無効な場合は空文字を返します。
func fieldAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isBlankRow は全フィールドが空白の行かどうかを判定します。
func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
