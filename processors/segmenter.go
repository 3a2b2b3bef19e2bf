package processors

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yanyiwu/gojieba"
)

// KeywordSegmenter 中文分词与关键词权重提取
type KeywordSegmenter interface {
	ExtractTags(text string, topK int) ([]string, error)
}

var errSegmenterUnavailable = errors.New("分词器不可用")

// JiebaSegmenter 基于 gojieba 的 TF-IDF 关键词提取。
// 词典在第一次使用时加载，之后所有调用共享同一个句柄；句柄相关字段都由 mu 保护。
type JiebaSegmenter struct {
	dictPaths []string

	once    sync.Once
	mu      sync.Mutex
	jieba   *gojieba.Jieba
	loadErr error
	closed  bool
}

// NewJiebaSegmenter 创建分词器；dictPaths 为空时使用 gojieba 自带词典
func NewJiebaSegmenter(dictPaths ...string) *JiebaSegmenter {
	return &JiebaSegmenter{dictPaths: dictPaths}
}

func (s *JiebaSegmenter) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.loadErr = errSegmenterUnavailable
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.jieba, s.loadErr = nil, fmt.Errorf("加载jieba词典失败: %v", r)
		}
	}()
	s.jieba = gojieba.NewJieba(s.dictPaths...)
	if s.jieba == nil {
		s.loadErr = errSegmenterUnavailable
	}
}

// ExtractTags 返回权重最高的 topK 个词
func (s *JiebaSegmenter) ExtractTags(text string, topK int) (tags []string, err error) {
	if s == nil {
		return nil, errSegmenterUnavailable
	}
	s.once.Do(s.load)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.jieba == nil {
		return nil, errSegmenterUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			tags, err = nil, fmt.Errorf("jieba提取关键词失败: %v", r)
		}
	}()

	weighted := s.jieba.ExtractWithWeight(text, topK)
	tags = make([]string, 0, len(weighted))
	for _, w := range weighted {
		tags = append(tags, w.Word)
	}
	return tags, nil
}

// Close 释放词典占用的内存；之后的调用都返回不可用错误
func (s *JiebaSegmenter) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.jieba != nil {
		s.jieba.Free()
		s.jieba = nil
	}
}
