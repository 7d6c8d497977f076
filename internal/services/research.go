package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/michela/coach/internal/cache"
	"github.com/michela/coach/internal/llm"
	"github.com/michela/coach/internal/model"
	"github.com/michela/coach/internal/pubmed"
	"github.com/michela/coach/internal/translate"
)

// searchFilter narrows free-text queries to human training and nutrition studies.
const searchFilter = `(%s) AND (humans[MeSH Terms] OR human OR adults) AND (resistance training OR strength training OR exercise OR training OR nutrition OR diet) NOT (disease OR pathology OR clinical trial OR patient OR therapy OR treatment OR cancer OR diabetes OR heart failure OR hypertension OR cardiovascular OR stroke OR injury OR rehabilitation OR surgery OR medical OR hospital OR elderly OR aging OR chronic OR acute OR syndrome OR disorder OR impairment OR disability OR risk OR mortality OR morbidity OR rat OR mouse OR mice OR animal OR in vitro OR in vivo OR cell culture OR chemical OR compound OR toxicity OR contamination OR pollutant OR pesticide OR hormone disruption OR molecular OR mechanism OR pathway OR gene OR protein expression OR enzyme OR receptor OR signaling OR review[Publication Type] OR meta-analysis[Publication Type])`

// latestTerm is the fixed topic of the latest research listing.
const latestTerm = `(((muscle hypertrophy[Title] OR resistance training[Title] OR strength training[Title]) OR (weight loss[Title] OR protein intake[Title])) AND (humans[MeSH Terms] OR human[Title/Abstract] OR adults[Title/Abstract]) AND (training[Title/Abstract] OR exercise[Title/Abstract])) NOT (disease[Title] OR cancer[Title] OR diabetes[Title] OR hypertension[Title] OR stroke[Title] OR injury[Title] OR rehabilitation[Title] OR surgery[Title] OR elderly[Title] OR aging[Title] OR children[Title] OR pediatric[Title] OR rat[Title] OR mouse[Title] OR mice[Title] OR animal[Title] OR in vitro[Title] OR cell[Title] OR chemical[Title] OR toxicity[Title] OR hormone disruption[Title] OR molecular[Title] OR pathway[Title] OR gene[Title] OR review[Publication Type])`

const latestCacheKey = "research:latest"

const summaryPrompt = `以下の論文から、トレーニーやダイエット実践者が使える具体的なアドバイスを抽出してください（200文字程度）：

タイトル: %s

Abstract: %s

【重要】以下の形式で回答してください：
- 具体的な数値（タンパク質量、重量、回数、頻度、期間など）
- すぐに実践できる推奨事項
- 「研究によると〜」ではなく「〜がおすすめです」「〜が効果的です」という断定形で
- 学術的な説明ではなく、実践的なアドバイスとして

例：「筋肥大には1日あたり体重1kgあたり1.6gのタンパク質摂取が効果的です」
「10RM（10回で限界になる重量）でのトレーニングが筋肥大に最も効果的です」`

// ResearchConfig tunes the research pipeline.
type ResearchConfig struct {
	// SourceLang is the caller's language; TargetLang is the search API's.
	SourceLang        string
	TargetLang        string
	PageSize          int
	LatestSize        int
	LatestTTL         time.Duration
	TranslateAttempts int
	TranslateBackoff  time.Duration
}

func (c *ResearchConfig) withDefaults() {
	if c.SourceLang == "" {
		c.SourceLang = "ja"
	}
	if c.TargetLang == "" {
		c.TargetLang = "en"
	}
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.LatestSize <= 0 {
		c.LatestSize = 5
	}
	if c.LatestTTL <= 0 {
		c.LatestTTL = time.Hour
	}
	if c.TranslateAttempts <= 0 {
		c.TranslateAttempts = 3
	}
	if c.TranslateBackoff < 0 {
		c.TranslateBackoff = 0
	}
}

// ResearchService searches published studies and summarises them with the LLM.
type ResearchService struct {
	search     pubmed.Searcher
	translator translate.Translator
	llm        llm.Completer
	cache      *cache.Cache
	cfg        ResearchConfig
	log        zerolog.Logger
	now        func() time.Time
}

func NewResearchService(search pubmed.Searcher, tr translate.Translator, c llm.Completer, ch *cache.Cache, cfg ResearchConfig, log zerolog.Logger) *ResearchService {
	cfg.withDefaults()
	return &ResearchService{search: search, translator: tr, llm: c, cache: ch, cfg: cfg, log: log, now: time.Now}
}

// Search translates query, runs the filtered search for one page and translates titles back.
// Translation failures fall back to untranslated text; search failures are UpstreamErrors.
func (s *ResearchService) Search(ctx context.Context, query string, offset int) (*model.ResearchSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewValidationError("query", "is required")
	}
	if offset < 0 {
		return nil, model.NewValidationError("offset", "must not be negative")
	}

	translated := s.translateQuery(ctx, query)
	term := fmt.Sprintf(searchFilter, translated)

	ids, total, err := s.search.Search(ctx, term, offset, s.cfg.PageSize, pubmed.SortNewest)
	if err != nil {
		return nil, asUpstream("pubmed", err)
	}
	out := &model.ResearchSearchResult{
		Results:         []model.ResearchArticle{},
		TranslatedQuery: translated,
		SearchQuery:     term,
		Count:           total,
		Offset:          offset,
	}
	if len(ids) == 0 {
		return out, nil
	}

	articles, err := s.articles(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	out.Results = articles
	out.DisplayedCount = len(articles)
	return out, nil
}

// Latest returns the newest studies on the fixed topic, cached for LatestTTL.
// Empty listings are cached too.
func (s *ResearchService) Latest(ctx context.Context) (*model.LatestResearch, error) {
	res, err := s.cache.Do(ctx, cache.Key(latestCacheKey), s.cfg.LatestTTL, func(ctx context.Context) (string, error) {
		ids, _, err := s.search.Search(ctx, latestTerm, 0, s.cfg.LatestSize, pubmed.SortNewest)
		if err != nil {
			return "", asUpstream("pubmed", err)
		}
		articles := []model.ResearchArticle{}
		if len(ids) > 0 {
			if articles, err = s.articles(ctx, ids, true); err != nil {
				return "", err
			}
		}
		b, err := json.Marshal(model.LatestResearch{Articles: articles, CachedAt: s.now().UTC()})
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("latest research lookup failed")
		return nil, asUpstream("pubmed", err)
	}
	var out model.LatestResearch
	if err := json.Unmarshal([]byte(res.Value), &out); err != nil {
		return nil, fmt.Errorf("decode cached research: %w", err)
	}
	return &out, nil
}

// Summary asks the LLM for practical advice drawn from one article's abstract. Not cached.
func (s *ResearchService) Summary(ctx context.Context, id string) (*model.ResearchSummary, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	abs, err := s.search.FetchAbstract(ctx, id)
	if errors.Is(err, pubmed.ErrNoArticle) {
		return nil, model.NewNotFoundError("article", id)
	}
	if err != nil {
		return nil, asUpstream("pubmed", err)
	}
	text, err := s.llm.Complete(ctx, fmt.Sprintf(summaryPrompt, abs.Title, abs.Abstract))
	if err != nil {
		s.log.Error().Stack().Err(err).Str("article", id).Msg("research summary failed")
		return nil, asUpstream("llm", err)
	}
	return &model.ResearchSummary{
		ID:      id,
		Title:   abs.Title,
		Summary: strings.TrimSpace(text),
		URL:     pubmed.ArticleURL(id),
	}, nil
}

// articles fetches metadata for ids in one batch and keeps their order. Titles are
// translated back to the caller's language one by one, each falling back independently.
func (s *ResearchService) articles(ctx context.Context, ids []string, normalizeDates bool) ([]model.ResearchArticle, error) {
	meta, err := s.search.FetchMetadata(ctx, ids)
	if err != nil {
		return nil, asUpstream("pubmed", err)
	}
	out := make([]model.ResearchArticle, 0, len(ids))
	for _, id := range ids {
		md, ok := meta[id]
		if !ok {
			continue
		}
		title := md.Title
		if title == "" {
			title = "No title"
		} else if tr, err := s.translator.Translate(ctx, title, s.cfg.TargetLang, s.cfg.SourceLang); err == nil && tr != "" {
			title = tr
		} else if err != nil {
			s.log.Warn().Err(err).Str("article", id).Msg("title translation failed; keeping original")
		}
		authors := "Unknown"
		if len(md.Authors) > 0 {
			authors = strings.Join(md.Authors, ", ")
		}
		date := md.PubDate
		if normalizeDates {
			date = pubmed.NormalizeDate(date)
		}
		out = append(out, model.ResearchArticle{
			ID:      id,
			Title:   title,
			Authors: authors,
			Date:    date,
			URL:     pubmed.ArticleURL(id),
		})
	}
	return out, nil
}

// translateQuery makes up to TranslateAttempts attempts with a constant backoff and
// falls back to the original text.
func (s *ResearchService) translateQuery(ctx context.Context, query string) string {
	var out string
	attempt := 0
	op := func() error {
		attempt++
		tr, err := s.translator.Translate(ctx, query, s.cfg.SourceLang, s.cfg.TargetLang)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("query translation failed")
			return err
		}
		if strings.TrimSpace(tr) == "" {
			return errors.New("empty translation")
		}
		out = tr
		return nil
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.TranslateBackoff), uint64(s.cfg.TranslateAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		s.log.Warn().Err(err).Str("query", query).Int("attempts", attempt).Msg("translation failed; searching with original query")
		return query
	}
	return out
}
