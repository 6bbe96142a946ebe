// Package entity はrankingフィーチャーのドメインエンティティを定義します。
package entity

// Record はスプレッドシートから取得した順位と企業名の1組を表します。
// 行順はシートの行順をそのまま保持し、一意性は保証しません。
type Record struct {
	Rank    string // 順位（シート上の表記のまま保持）
	Company string // 企業名
}
