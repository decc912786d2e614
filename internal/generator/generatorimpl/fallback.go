package generatorimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planloop/content-planner/internal/domain"
)

// topicClass is the bucket a topic falls into when the fallback has to pick
// a canned template.
type topicClass int

const (
	classGeneral topicClass = iota
	classTechnology
	classFood
)

var techKeywords = []string{"code", "código", "codigo", "dev", "ia", "ai", "tech", "software", "programa"}

var foodKeywords = []string{"receita", "recipe", "food", "cozinha", "comida", "gastronomia", "chef"}

func classify(topic string) topicClass {
	lowered := strings.ToLower(topic)
	for _, kw := range techKeywords {
		if strings.Contains(lowered, kw) {
			return classTechnology
		}
	}
	for _, kw := range foodKeywords {
		if strings.Contains(lowered, kw) {
			return classFood
		}
	}
	return classGeneral
}

// simulate produces the offline fallback result after a fixed delay.
func (g *GeneratorImpl) simulate(ctx context.Context, topic string) (*domain.GeneratedContent, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(g.simulatedDelay):
	}

	var caption string
	var hashtags []string

	switch classify(topic) {
	case classTechnology:
		caption = fmt.Sprintf("🚀 Level up the way you build! 💻\n\nIn today's video I show how to apply %s in your day-to-day work. Watch your productivity take off! 📈\n\n👇 Tell me in the comments: what is your biggest blocker in this area?\n\n#DevLife", topic)
		hashtags = []string{"#Development", "#Programming", "#TechTips", "#CleanCode", "#Innovation"}
	case classFood:
		caption = fmt.Sprintf("😋 Get the kitchen ready!\n\nToday we are making %s, step by step, no mystery. Save this one for the weekend! 🍴\n\nTag someone who needs to try this 👇", topic)
		hashtags = []string{"#Foodie", "#Recipe", "#HomeCooking", "#FoodLover"}
	default:
		caption = fmt.Sprintf("✨ That special moment we needed to capture!\n\n\"%s\" is not just about the result, it is about the process. I hope this video inspires your day as much as it inspired me to record it. 🎥\n\nTag someone who needs to see this today! 👇", topic)
		hashtags = []string{"#Inspiration", "#Lifestyle", "#DigitalContent", "#Vibes", "#Creativity"}
	}

	return &domain.GeneratedContent{
		Caption:   caption,
		Hashtags:  hashtags,
		Simulated: true,
	}, nil
}
