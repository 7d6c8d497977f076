package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/michela/coach/internal/aggregate"
	"github.com/michela/coach/internal/cache"
	"github.com/michela/coach/internal/llm"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/store"
)

const (
	trainingAdviceRecords = 10
	trainingPriorSessions = 3
	mealAdviceRecords     = 30
	mealAdviceDays        = 7
)

// Canned replies for customers without records. They are not errors.
const (
	NoTrainingRecordsMessage = "まだトレーニング記録がありません。まずはトレーニングを記録してみましょう！"
	NoMealRecordsMessage     = "まだ食事記録がありません。まずは食事を記録してみましょう！"
)

const trainingAdviceInstructions = `上記のトレーニング記録を分析して、以下の観点から具体的なアドバイスをしてください：
1. トレーニング頻度や種目のバランス
2. 重量やレップ数の進捗状況
3. 次回のトレーニングで改善できるポイント
4. 怪我を防ぐための注意点

アドバイスは簡潔に3-5個のポイントでまとめてください。`

const mealAdviceInstructions = `上記の食事記録と目標を分析して、以下の観点から具体的なアドバイスをしてください：
1. 目標に対する達成度（カロリー、PFCバランス）
2. 栄養バランスの改善点
3. 次の食事で意識すべきこと
4. おすすめの食品や食事のタイミング

アドバイスは簡潔に3-5個のポイントでまとめてください。`

const chatSystemPrompt = `あなたは筋トレ・ダイエット・栄養科学の専門家アシスタントです。
科学的根拠に基づいた最新の情報を提供してください。
可能な限り具体的な研究や論文を参照してください。

ユーザーの質問: `

// AdviceService turns a customer's recent records into LLM advice, deduplicated through the cache.
type AdviceService struct {
	store store.Store
	llm   llm.Completer
	cache *cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewAdviceService wires the pipeline. ttl is the lifetime of cached LLM responses.
func NewAdviceService(s store.Store, c llm.Completer, ch *cache.Cache, ttl time.Duration, log zerolog.Logger) *AdviceService {
	return &AdviceService{store: s, llm: c, cache: ch, ttl: ttl, log: log}
}

// TrainingAdvice analyses the customer's latest sessions.
func (s *AdviceService) TrainingAdvice(ctx context.Context, customerID string) (*model.Advice, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, model.NewValidationError("customer_id", "is required")
	}
	sessions, err := s.store.Trainings().Recent(ctx, customerID, trainingAdviceRecords)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return &model.Advice{Advice: NoTrainingRecordsMessage}, nil
	}
	return s.complete(ctx, "training", TrainingPrompt(sessions))
}

// MealAdvice analyses the customer's recent days of meals against the nutrition goal.
func (s *AdviceService) MealAdvice(ctx context.Context, customerID string) (*model.Advice, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, model.NewValidationError("customer_id", "is required")
	}
	meals, err := s.store.Meals().Recent(ctx, customerID, mealAdviceRecords)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return &model.Advice{Advice: NoMealRecordsMessage}, nil
	}
	goal, err := s.store.Goals().Get(ctx, customerID)
	if model.IsNotFoundError(err) {
		def := model.DefaultNutritionGoal(customerID)
		goal, err = &def, nil
	}
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, "meal", MealPrompt(aggregate.DailyRollup(meals), *goal))
}

// Chat answers a free-form question as a fitness and nutrition expert.
func (s *AdviceService) Chat(ctx context.Context, message string) (*model.Advice, error) {
	if strings.TrimSpace(message) == "" {
		return nil, model.NewValidationError("message", "is required")
	}
	return s.complete(ctx, "chat", chatSystemPrompt+message)
}

func (s *AdviceService) complete(ctx context.Context, kind, prompt string) (*model.Advice, error) {
	res, err := s.cache.Do(ctx, cache.Key(prompt), s.ttl, func(ctx context.Context) (string, error) {
		return s.llm.Complete(ctx, prompt)
	})
	if err != nil {
		s.log.Error().Stack().Err(err).Str("kind", kind).Msg("advice generation failed")
		return nil, asUpstream("llm", err)
	}
	out := &model.Advice{Advice: res.Value, IsCached: res.Cached}
	if res.Cached {
		exp := res.ExpiresAt
		out.CachedUntil = &exp
	}
	s.log.Debug().Str("kind", kind).Bool("cached", res.Cached).Msg("advice served")
	return out, nil
}

// TrainingPrompt renders the newest session in full and up to three prior sessions
// as per-exercise max weight and set counts. sessions must be newest first.
func TrainingPrompt(sessions []*model.TrainingSession) string {
	var b strings.Builder
	latest := sessions[0]
	b.WriteString("【最新のトレーニング記録】\n")
	fmt.Fprintf(&b, "日付: %s\n", latest.Date)
	fmt.Fprintf(&b, "所要時間: %d分\n", latest.DurationMinutes)
	for _, ex := range latest.Exercises {
		sets := make([]string, 0, len(ex.Sets))
		for _, set := range ex.Sets {
			sets = append(sets, fmt.Sprintf("%d回×%skg", set.Reps, num(set.Weight)))
		}
		fmt.Fprintf(&b, "- %s: %s\n", exerciseLabel(ex), strings.Join(sets, ", "))
	}
	if latest.Notes != "" {
		fmt.Fprintf(&b, "メモ: %s\n", latest.Notes)
	}

	prior := sessions[1:]
	if len(prior) > trainingPriorSessions {
		prior = prior[:trainingPriorSessions]
	}
	if len(prior) > 0 {
		b.WriteString("\n【過去のトレーニング（最大重量・セット数）】\n")
		for _, ts := range prior {
			stats := aggregate.SummarizeSession(ts)
			parts := make([]string, 0, len(stats))
			for _, st := range stats {
				parts = append(parts, fmt.Sprintf("%s 最大%skg×%dセット", statLabel(st), num(st.MaxWeight), st.SetCount))
			}
			fmt.Fprintf(&b, "%s: %s\n", ts.Date, strings.Join(parts, ", "))
		}
	}

	b.WriteString("\n")
	b.WriteString(trainingAdviceInstructions)
	return b.String()
}

// MealPrompt renders up to seven most recent days, their averages and the goal.
// Calories and macros are rounded half to even.
func MealPrompt(rollup map[string]aggregate.Totals, goal model.NutritionGoal) string {
	var b strings.Builder
	dates := aggregate.RecentDates(rollup, mealAdviceDays)
	b.WriteString("【最近の食事記録（日別）】\n")
	for _, d := range dates {
		t := rollup[d]
		fmt.Fprintf(&b, "%s: %skcal (P:%sg, F:%sg, C:%sg) - %d食\n",
			d, whole(t.Calories), whole(t.Protein), whole(t.Fat), whole(t.Carbs), t.MealCount)
	}

	avg := aggregate.Average(rollup, mealAdviceDays)
	fmt.Fprintf(&b, "\n【平均（%d日間）】\n", len(dates))
	fmt.Fprintf(&b, "カロリー: %skcal\n", whole(avg.Calories))
	fmt.Fprintf(&b, "タンパク質: %sg\n", whole(avg.Protein))
	fmt.Fprintf(&b, "脂質: %sg\n", whole(avg.Fat))
	fmt.Fprintf(&b, "炭水化物: %sg\n", whole(avg.Carbs))

	b.WriteString("\n【目標】\n")
	fmt.Fprintf(&b, "カロリー: %skcal\n", num(goal.TargetCalories))
	fmt.Fprintf(&b, "タンパク質: %sg\n", num(goal.TargetProtein))
	fmt.Fprintf(&b, "脂質: %sg\n", num(goal.TargetFat))
	fmt.Fprintf(&b, "炭水化物: %sg\n", num(goal.TargetCarbs))

	b.WriteString("\n")
	b.WriteString(mealAdviceInstructions)
	return b.String()
}

func exerciseLabel(ex model.Exercise) string {
	if ex.ExerciseName != "" {
		return ex.ExerciseName
	}
	return ex.ExerciseID
}

func statLabel(st aggregate.ExerciseStat) string {
	if st.ExerciseName != "" {
		return st.ExerciseName
	}
	return st.ExerciseID
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func whole(v float64) string { return strconv.FormatFloat(aggregate.Whole(v), 'f', 0, 64) }

// asUpstream keeps typed errors and wraps anything else as a failure of service.
func asUpstream(service string, err error) error {
	if model.IsUpstreamError(err) || model.IsValidationError(err) || model.IsNotFoundError(err) {
		return err
	}
	return model.NewUpstreamError(service, err)
}
