package render

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Rendered replies are kept for the life of a session. The conversation page
// re-renders its whole history on every resize and every new reply.
const (
	outputTTL     = 30 * time.Minute
	outputCleanup = time.Hour
)

var outputCache = cache.New(outputTTL, outputCleanup)

// Markdown renders markdown content for terminal display.
// Results are memoised per option set and content.
func Markdown(content string, opts Options) (string, error) {
	key := cacheKey(opts) + "\x00" + content
	if out, ok := outputCache.Get(key); ok {
		return out.(string), nil
	}

	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	out, err := renderer.Render(content)
	if err != nil {
		return "", err
	}
	outputCache.SetDefault(key, out)
	return out, nil
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// MemoSize returns the number of memoised outputs.
func MemoSize() int {
	return outputCache.ItemCount()
}
