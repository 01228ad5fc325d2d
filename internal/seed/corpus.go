// internal/seed/corpus.go
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// KnowledgeDocument is one entry of the sample corpus.
type KnowledgeDocument struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Difficulty string   `json:"difficulty"`
	Language   string   `json:"language"`
}

// SeedDocument pairs a corpus entry with its document ID.
type SeedDocument struct {
	ID     string
	Source KnowledgeDocument
}

// documentSchema is validated against every corpus entry before indexing, so
// a bad edit to the corpus fails fast instead of producing an index with
// holes in it.
const documentSchema = `{
  "type": "object",
  "required": ["title", "content", "category", "tags", "difficulty", "language"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "content": {"type": "string", "minLength": 1},
    "category": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "difficulty": {"type": "string", "minLength": 1},
    "language": {"type": "string", "minLength": 1}
  }
}`

// LoadDocumentsFile reads a custom corpus from a JSON array of documents.
// IDs are assigned from position, starting at 1.
func LoadDocumentsFile(path string) ([]SeedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var sources []KnowledgeDocument
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no documents", path)
	}

	docs := make([]SeedDocument, len(sources))
	for i, source := range sources {
		docs[i] = SeedDocument{ID: strconv.Itoa(i + 1), Source: source}
	}
	return docs, nil
}

// SampleDocuments returns the Japanese-language demo corpus covering the
// concepts the tool itself is built on.
func SampleDocuments() []SeedDocument {
	return []SeedDocument{
		{
			ID: "1",
			Source: KnowledgeDocument{
				Title:      "機械学習の基礎",
				Content:    "機械学習は、コンピュータが明示的にプログラムされることなく学習する能力を与える人工知能の一分野です。データからパターンを見つけ出し、新しいデータに対して予測や判断を行うことができます。教師あり学習、教師なし学習、強化学習の3つの主要なタイプがあります。",
				Category:   "AI",
				Tags:       []string{"機械学習", "AI", "データサイエンス", "人工知能"},
				Difficulty: "初級",
				Language:   "ja",
			},
		},
		{
			ID: "2",
			Source: KnowledgeDocument{
				Title:      "Pythonプログラミング入門",
				Content:    "Pythonは、読みやすく書きやすい高水準プログラミング言語です。データサイエンス、機械学習、Web開発、自動化などの分野で広く使用されています。豊富なライブラリエコシステムと活発なコミュニティが特徴です。",
				Category:   "プログラミング",
				Tags:       []string{"Python", "プログラミング", "データサイエンス", "開発"},
				Difficulty: "初級",
				Language:   "ja",
			},
		},
		{
			ID: "3",
			Source: KnowledgeDocument{
				Title:      "深層学習（ディープラーニング）",
				Content:    "深層学習は、多層のニューラルネットワークを使用した機械学習の手法です。画像認識、自然言語処理、音声認識などの分野で革命的な成果を上げています。TensorFlow、PyTorch、Kerasなどのフレームワークが広く使用されています。",
				Category:   "AI",
				Tags:       []string{"深層学習", "ニューラルネットワーク", "AI", "機械学習"},
				Difficulty: "中級",
				Language:   "ja",
			},
		},
		{
			ID: "4",
			Source: KnowledgeDocument{
				Title:      "データサイエンスとは",
				Content:    "データサイエンスは、統計学、機械学習、プログラミング、ドメイン知識を組み合わせて、データから有意義な洞察を抽出する学際的な分野です。ビジネス意思決定の支援や新しい知見の発見に役立ちます。",
				Category:   "データサイエンス",
				Tags:       []string{"データサイエンス", "統計", "分析", "ビジネス"},
				Difficulty: "初級",
				Language:   "ja",
			},
		},
		{
			ID: "5",
			Source: KnowledgeDocument{
				Title:      "自然言語処理（NLP）",
				Content:    "自然言語処理は、コンピュータが人間の言語を理解し、処理する技術です。テキスト分析、機械翻訳、感情分析、チャットボットなどの応用があります。最近では、TransformerアーキテクチャやGPTなどの大規模言語モデルが注目されています。",
				Category:   "AI",
				Tags:       []string{"自然言語処理", "NLP", "テキスト分析", "AI"},
				Difficulty: "中級",
				Language:   "ja",
			},
		},
		{
			ID: "6",
			Source: KnowledgeDocument{
				Title:      "ElasticSearchの基本",
				Content:    "ElasticSearchは、分散型の検索・分析エンジンです。リアルタイムでの全文検索、ログ分析、メトリクス分析などに使用されます。RESTful APIを提供し、JSON形式でデータを扱います。スケーラビリティと高いパフォーマンスが特徴です。",
				Category:   "データベース",
				Tags:       []string{"ElasticSearch", "検索エンジン", "分析", "データベース"},
				Difficulty: "初級",
				Language:   "ja",
			},
		},
		{
			ID: "7",
			Source: KnowledgeDocument{
				Title:      "RAG（Retrieval Augmented Generation）",
				Content:    "RAGは、情報検索と生成AIを組み合わせた手法です。関連する文書を検索し、その内容をコンテキストとして大規模言語モデルに与えることで、より正確で根拠のある回答を生成できます。知識ベースの更新が容易で、幻覚（hallucination）の問題を軽減できます。",
				Category:   "AI",
				Tags:       []string{"RAG", "情報検索", "生成AI", "LLM"},
				Difficulty: "中級",
				Language:   "ja",
			},
		},
		{
			ID: "8",
			Source: KnowledgeDocument{
				Title:      "Google Gemini API",
				Content:    "Google Gemini APIは、Googleが開発した最新の生成AIモデルです。テキスト生成、画像理解、コード生成など、マルチモーダルな機能を提供します。高い性能と柔軟性を持ち、様々なアプリケーションに統合できます。",
				Category:   "API",
				Tags:       []string{"Gemini", "Google", "生成AI", "API"},
				Difficulty: "初級",
				Language:   "ja",
			},
		},
	}
}
