// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MarkupGuard は氏名などのプレーンテキスト項目にHTMLマークアップが含まれるかを判定する。
// 入力は書き換えず、マークアップを含む値は呼び出し側で検証エラーとして拒否する。
// 保存済みの値は出力時にJSONエンコーダが < > & をエスケープする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MarkupDetector はプレーンテキスト項目のマークアップ判定のインターフェースを定義する。
type MarkupDetector interface {
	// ContainsMarkup はタグやコメントなど、HTMLとして解釈される構造を含む場合にtrueを返す。
	// "&lt;b&gt;" のようなエンティティ表記や "a < b" のような比較記号は文字として扱う。
	ContainsMarkup(s string) bool
}

// MarkupGuard はMarkupDetectorの実装。
// bluemondayのポリシーはスレッドセーフなので共有して使う。
type MarkupGuard struct {
	policy *bluemonday.Policy
}

var _ MarkupDetector = (*MarkupGuard)(nil)

// NewMarkupGuard はStrictPolicyを使うMarkupGuardを生成する。
func NewMarkupGuard() *MarkupGuard {
	return &MarkupGuard{policy: bluemonday.StrictPolicy()}
}

// ContainsMarkup はStrictPolicyで全タグを除去した結果と元の文字列を、
// エンティティを展開した上で比較する。差分があればタグが除去されたことを意味する。
func (g *MarkupGuard) ContainsMarkup(s string) bool {
	// タグは必ず'<'で始まる
	if !strings.Contains(s, "<") {
		return false
	}
	return html.UnescapeString(g.policy.Sanitize(s)) != html.UnescapeString(s)
}
