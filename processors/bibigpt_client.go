package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"videoMindmap/core"
)

// ChapterSummarizer 视频章节摘要服务
type ChapterSummarizer interface {
	ChapterSummary(ctx context.Context, videoURL string) (*core.ChapterSummary, error)
}

// BibiGPTClient 调用 BibiGPT 的 chapter-summary 接口。
// 密钥位于请求路径中，因此请求地址不写日志。
type BibiGPTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewBibiGPTClient 创建客户端
func NewBibiGPTClient(baseURL, apiKey string, timeout time.Duration) *BibiGPTClient {
	return &BibiGPTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ChapterSummary 请求视频的整体摘要和章节
func (c *BibiGPTClient) ChapterSummary(ctx context.Context, videoURL string) (*core.ChapterSummary, error) {
	endpoint := fmt.Sprintf("%s/%s/chapter-summary?url=%s", c.baseURL, url.PathEscape(c.apiKey), url.QueryEscape(videoURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, core.NewError(core.KindUpstream, "创建请求失败", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewError(core.KindUpstream, "请求摘要服务失败", redactURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, core.NewError(core.KindUpstream, "读取响应失败", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, core.Errorf(core.KindUpstream, "摘要服务返回状态码 %d: %s", resp.StatusCode, truncateBody(body))
	}

	var out core.ChapterSummary
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, core.NewError(core.KindUpstream, "解析摘要服务响应失败", err)
	}
	if !out.Success {
		return nil, core.ErrSummarizationUnsucceeded
	}
	return &out, nil
}

// redactURLError 去掉 *url.Error 中包含密钥的地址
func redactURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
