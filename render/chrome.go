package render

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"

	"videoMindmap/config"
	"videoMindmap/utils"
)

// ChromeScreenshotter 每次截图启动一个独立的无头浏览器，返回前关闭
type ChromeScreenshotter struct {
	execPath    string
	timeout     time.Duration
	waitTimeout time.Duration
	width       int
	height      int
	logger      *utils.Logger
}

// NewChromeScreenshotter 按渲染配置创建
func NewChromeScreenshotter(cfg config.RenderConfig, logger *utils.Logger) *ChromeScreenshotter {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &ChromeScreenshotter{
		execPath:    cfg.ChromePath,
		timeout:     cfg.Timeout,
		waitTimeout: cfg.WaitTimeout,
		width:       cfg.ViewportWidth,
		height:      cfg.ViewportHeight,
		logger:      logger,
	}
}

// Screenshot 打开页面，等待 jsMind 节点出现后截取整页。
// 等待超时不算失败，直接截取当前页面。
func (c *ChromeScreenshotter) Screenshot(ctx context.Context, pageURL string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(c.width, c.height),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(c.width), int64(c.height)),
		chromedp.Navigate(pageURL),
	); err != nil {
		return nil, err
	}

	if c.waitTimeout > 0 {
		waitCtx, cancelWait := context.WithTimeout(browserCtx, c.waitTimeout)
		err := chromedp.Run(waitCtx, chromedp.WaitVisible("jmnode", chromedp.ByQuery))
		cancelWait()
		switch {
		case err == nil:
			c.logger.Debug("思维导图渲染完成")
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			c.logger.Warn("等待思维导图渲染超时，继续截图", "wait_timeout", c.waitTimeout.String())
		default:
			return nil, err
		}
	}

	var png []byte
	if err := chromedp.Run(browserCtx,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	); err != nil {
		return nil, err
	}
	return png, nil
}
