package dto

// QueryResponse は /query 成功時のレスポンスDTOです。
type QueryResponse struct {
	Success   bool   `json:"success"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"` // 回答生成時刻（RFC3339 UTC）
}

// ValidationErrorResponse はリクエスト検証エラー（400）のレスポンスDTOです。
type ValidationErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Example string `json:"example"` // 正しいリクエストボディの例
}

// DataErrorResponse はランキングデータ取得失敗（500）のレスポンスDTOです。
type DataErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ProcessingErrorResponse はアシスタント処理失敗（500）のレスポンスDTOです。
type ProcessingErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
