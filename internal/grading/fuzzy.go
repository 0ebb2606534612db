package grading

import (
	"strings"
	"unicode"
)

// DefaultThreshold 填空题模糊匹配的全局相似度阈值
const DefaultThreshold = 0.8

// 常见同义词映射（可根据需要扩展）
var synonymGroups = [][]string{
	// 城市名称
	{"北京", "北京市", "首都", "京城"},
	{"上海", "上海市", "申城"},
	{"广州", "广州市", "羊城"},
	{"深圳", "深圳市"},

	// 常见判断词
	{"正确", "对", "是的", "是", "对的"},
	{"错误", "错", "不对", "否", "错的"},

	// 数字
	{"一", "1", "壹"},
	{"二", "2", "贰"},
	{"三", "3", "叁"},
	{"四", "4", "肆"},
	{"五", "5", "伍"},
	{"六", "6", "陆"},
	{"七", "7", "柒"},
	{"八", "8", "捌"},
	{"九", "9", "玖"},
	{"十", "10", "拾"},
}

// synonymIndex: 标准化词 -> 同义词组编号
var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]int {
	idx := make(map[string]int)
	for i, group := range synonymGroups {
		for _, w := range group {
			idx[normalize(w)] = i
		}
	}
	return idx
}

// normalize 标准化答案文本：去空白、去标点符号、转小写
func normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// similarity 计算两串的 Jaro 相似度，入参先标准化。
// 相同串为 1.0，无公共字符为 0，参数对称。
// 四字答案错一个字约 0.83，错两个字约 0.67，
// 因此 0.8 的阈值恰好放过单字笔误、拦下换词。
func similarity(a, b string) float64 {
	s1 := []rune(normalize(a))
	s2 := []rune(normalize(b))

	if string(s1) == string(s2) {
		return 1.0
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	window := len(s1)
	if len(s2) > window {
		window = len(s2)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matched1 := make([]bool, len(s1))
	matched2 := make([]bool, len(s2))
	matches := 0

	for i := range s1 {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi >= len(s2) {
			hi = len(s2) - 1
		}
		for j := lo; j <= hi; j++ {
			if matched2[j] || s1[i] != s2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// 半换位数
	transpositions := 0
	k := 0
	for i := range s1 {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if s1[i] != s2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(len(s1)) + m/float64(len(s2)) + (m-float64(transpositions)/2)/m) / 3
}

// Match 判断用户答案与标准答案是否匹配（模糊匹配）。
// 依次尝试：标准化后全等、包含关系（如"北京"匹配"北京市"）、
// 同义词表、相似度 >= threshold。
func Match(userAnswer, correctAnswer string, threshold float64) bool {
	nu := normalize(userAnswer)
	nc := normalize(correctAnswer)

	if nu == nc {
		return true
	}
	if nu == "" || nc == "" {
		return false
	}

	if strings.Contains(nc, nu) || strings.Contains(nu, nc) {
		return true
	}

	if gu, ok := synonymIndex[nu]; ok {
		if gc, ok := synonymIndex[nc]; ok && gu == gc {
			return true
		}
	}

	return similarity(userAnswer, correctAnswer) >= threshold
}

// MatchArray 批量匹配填空题答案：长度必须一致，且每一空按位置
// 逐一通过 Match，全部通过才算整题正确。
func MatchArray(userAnswers, correctAnswers []string, threshold float64) bool {
	if len(userAnswers) != len(correctAnswers) {
		return false
	}
	for i, ua := range userAnswers {
		if !Match(ua, correctAnswers[i], threshold) {
			return false
		}
	}
	return true
}
