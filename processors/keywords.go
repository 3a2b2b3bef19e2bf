package processors

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"videoMindmap/utils"
)

const (
	maxKeywords         = 15
	maxFallbackKeywords = 10
	minEnglishTokenLen  = 3
	minFrequentCount    = 2
	minFrequentTerms    = 5
)

var (
	latinWordRe    = regexp.MustCompile(`[a-zA-Z]+`)
	lowerTokenRe   = regexp.MustCompile(`[a-z]+`)
	chineseCharRe  = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)
	chineseTermRe  = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,6}`)
	errNoSegmenter = errors.New("未配置中文分词器")
)

var englishStopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are", "as",
	"at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by", "can", "could",
	"did", "do", "does", "doing", "down", "during", "each", "even", "few", "for", "from", "further", "get",
	"got", "had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "like", "made", "make",
	"many", "may", "me", "might", "more", "most", "much", "must", "my", "myself", "no", "nor", "not", "now",
	"of", "off", "on", "once", "one", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
	"same", "she", "should", "since", "so", "some", "still", "such", "than", "that", "the", "their", "theirs",
	"them", "themselves", "then", "there", "these", "they", "this", "those", "through", "thus", "to", "too",
	"under", "until", "up", "upon", "us", "use", "used", "using", "very", "via", "was", "we", "well", "were",
	"what", "when", "where", "whether", "which", "while", "who", "whom", "why", "will", "with", "within",
	"without", "would", "yet", "you", "your", "yours", "yourself", "yourselves",
)

var englishFallbackStopWords = toSet(
	"the", "and", "are", "for", "from", "that", "this", "with", "was", "were", "but", "not", "you", "your",
	"has", "have", "had", "its", "can", "will", "all", "any", "our", "they", "their",
)

var chineseStopWords = toSet(
	"我们", "你们", "他们", "她们", "它们", "这个", "那个", "这些", "那些", "这里", "那里", "这样", "那样",
	"什么", "怎么", "为什么", "如何", "因为", "所以", "但是", "而且", "然后", "如果", "虽然", "可以", "可能",
	"已经", "还是", "或者", "以及", "通过", "进行", "一个", "一些", "没有", "不是", "就是", "也是", "还有",
	"非常", "比较", "这种", "那种", "其中", "之后", "之前", "同时", "以后", "以前", "视频", "内容", "介绍",
	"主要", "其他", "这是", "自己", "大家", "需要", "对于", "关于",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// KeywordExtractor 按文本主要语言提取关键词，主路径失败时退回词频统计
type KeywordExtractor struct {
	segmenter KeywordSegmenter
	logger    *utils.Logger
}

// NewKeywordExtractor segmenter 可以为 nil，此时中文文本直接走词频统计
func NewKeywordExtractor(segmenter KeywordSegmenter, logger *utils.Logger) *KeywordExtractor {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &KeywordExtractor{segmenter: segmenter, logger: logger}
}

// Extract 从摘要中提取关键词，最多 15 个，结果不去重
func (e *KeywordExtractor) Extract(summary string) []string {
	if IsEnglishDominant(summary) {
		keywords, err := guard(func() ([]string, error) {
			return englishKeywords(summary), nil
		})
		if err != nil {
			e.logger.Warn("英文关键词提取失败，使用备用方法", "error", err)
			return englishFallbackKeywords(summary)
		}
		return keywords
	}

	keywords, err := guard(func() ([]string, error) {
		return e.chineseKeywords(summary)
	})
	if err != nil {
		e.logger.Warn("中文关键词提取失败，使用备用方法", "error", err)
		return chineseFallbackKeywords(summary)
	}
	return keywords
}

// IsEnglishDominant 英文单词数严格多于汉字数时视为英文文本
func IsEnglishDominant(text string) bool {
	englishWords := len(latinWordRe.FindAllStringIndex(text, -1))
	chineseChars := len(chineseCharRe.FindAllStringIndex(text, -1))
	return englishWords > chineseChars
}

func guard(fn func() ([]string, error)) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (e *KeywordExtractor) chineseKeywords(text string) ([]string, error) {
	if e.segmenter == nil {
		return nil, errNoSegmenter
	}
	tags, err := e.segmenter.ExtractTags(text, maxKeywords)
	if err != nil {
		return nil, err
	}
	keywords := make([]string, 0, len(tags))
	for _, tag := range tags {
		keywords = append(keywords, FoldQuotes(tag))
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords, nil
}

func englishKeywords(text string) []string {
	table := countTerms(englishTokens(text, englishStopWords))
	sortTerms(table, true)
	return topTerms(table, maxKeywords)
}

func englishFallbackKeywords(text string) []string {
	table := countTerms(englishTokens(text, englishFallbackStopWords))
	sortTerms(table, false)
	return topTerms(table, maxFallbackKeywords)
}

func chineseFallbackKeywords(text string) []string {
	var terms []string
	for _, term := range chineseTermRe.FindAllString(text, -1) {
		if _, stop := chineseStopWords[term]; stop {
			continue
		}
		terms = append(terms, term)
	}
	table := countTerms(terms)

	frequent := make([]termCount, 0, len(table))
	for _, tc := range table {
		if tc.count >= minFrequentCount {
			frequent = append(frequent, tc)
		}
	}
	if len(frequent) >= minFrequentTerms {
		table = frequent
	}

	sortTerms(table, true)
	keywords := topTerms(table, maxFallbackKeywords)
	for i, k := range keywords {
		keywords[i] = FoldQuotes(k)
	}
	return keywords
}

func englishTokens(text string, stops map[string]struct{}) []string {
	var tokens []string
	for _, tok := range lowerTokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < minEnglishTokenLen {
			continue
		}
		if _, stop := stops[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

type termCount struct {
	term  string
	count int
}

// countTerms 统计词频，结果按首次出现顺序排列
func countTerms(terms []string) []termCount {
	index := make(map[string]int, len(terms))
	table := make([]termCount, 0, len(terms))
	for _, t := range terms {
		if i, ok := index[t]; ok {
			table[i].count++
			continue
		}
		index[t] = len(table)
		table = append(table, termCount{term: t, count: 1})
	}
	return table
}

// sortTerms 按词频降序；longerFirst 时同频的长词在前，其余保持首次出现顺序
func sortTerms(table []termCount, longerFirst bool) {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].count != table[j].count {
			return table[i].count > table[j].count
		}
		if longerFirst {
			return utf8.RuneCountInString(table[i].term) > utf8.RuneCountInString(table[j].term)
		}
		return false
	})
}

func topTerms(table []termCount, n int) []string {
	if len(table) > n {
		table = table[:n]
	}
	out := make([]string, 0, len(table))
	for _, tc := range table {
		out = append(out, tc.term)
	}
	return out
}
