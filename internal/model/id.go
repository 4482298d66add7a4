package model

import "math"

// MaxID はIDの上限。テーブルのidとストアド関数の引数はINTEGER（32ビット）のため、
// これを超える値は存在しないIDとして扱い、DBに渡さない。
const MaxID = math.MaxInt32

// ValidID はidが保存可能な範囲（1以上MaxID以下）にあるかを返す。
func ValidID(id int) bool {
	return id > 0 && id <= MaxID
}
