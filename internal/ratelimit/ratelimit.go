package ratelimit

import (
	"fmt"
	"log"
	"sync"
)

// AIBudget caps AI calls per run. Chat covers triage/critique/generate;
// image covers cover analysis and generation. Zero limit means unlimited.
type AIBudget struct {
	mu         sync.Mutex
	chatCount  int
	imageCount int
	maxChat    int
	maxImage   int
}

func NewAIBudget(maxChat, maxImage int) *AIBudget {
	return &AIBudget{
		maxChat:  maxChat,
		maxImage: maxImage,
	}
}

// CanUseChat checks if we can make a chat completion request.
func (b *AIBudget) CanUseChat() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxChat > 0 && b.chatCount >= b.maxChat {
		log.Printf("⚠️ Chat AI budget reached (%d/%d)", b.chatCount, b.maxChat)
		return false
	}
	return true
}

// UseChat increments the chat counter.
func (b *AIBudget) UseChat() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxChat > 0 && b.chatCount >= b.maxChat {
		return fmt.Errorf("chat AI budget exceeded")
	}
	b.chatCount++

	log.Printf("📊 AI usage: chat=%d/%d image=%d/%d", b.chatCount, b.maxChat, b.imageCount, b.maxImage)
	return nil
}

// CanUseImage checks if we can make an image generation request.
func (b *AIBudget) CanUseImage() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxImage > 0 && b.imageCount >= b.maxImage {
		log.Printf("⚠️ Image AI budget reached (%d/%d)", b.imageCount, b.maxImage)
		return false
	}
	return true
}

// UseImage increments the image counter.
func (b *AIBudget) UseImage() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxImage > 0 && b.imageCount >= b.maxImage {
		return fmt.Errorf("image AI budget exceeded")
	}
	b.imageCount++

	log.Printf("📊 AI usage: chat=%d/%d image=%d/%d", b.chatCount, b.maxChat, b.imageCount, b.maxImage)
	return nil
}

// GetStats returns current budget statistics.
func (b *AIBudget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"chat_used":   b.chatCount,
		"chat_limit":  b.maxChat,
		"image_used":  b.imageCount,
		"image_limit": b.maxImage,
	}
}
