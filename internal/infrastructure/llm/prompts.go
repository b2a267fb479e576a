package llm

// nativePromptTemplate handles articles already written in the pipeline's
// native language: translation is skipped, analysis is still produced.
const nativePromptTemplate = `あなたはIT・AI分野の専門コンサルタントです。
以下の日本語の技術記事（概要）を読み、ビジネスパーソンやエンジニアに向けた
「考察」「ユースケース」「用語解説」を作成してください。
元の文章が日本語なので翻訳は不要です。

【入力情報】
タイトル: %s
概要: %s

【出力項目（JSON）】
1. translated_title: (文字列) 入力されたタイトルをそのまま出力してください。

2. translated_summary: (文字列)
   概要を読みやすく簡潔な「です・ます」調の日本語で要約してください。
   箇条書きや改行は使用せず、1つの段落（100〜150文字程度）にまとめてください。
   英語記事の要約スタイルに合わせてください。

3. gemini_insight: (文字列) 【考察】この記事の技術が業界に与える影響や、エンジニアにとってのメリットを専門家の視点で解説してください。
4. gemini_example: (文字列) 【具体例】この技術や知見が実際にどう役立つか、具体的な利用シーンを記述してください。
5. gemini_explanation: (文字列のリスト配列)
   【用語解説】記事に出てくる専門用語について、
   ["用語A: 解説A", "用語B: 解説B"] の形式のリストで出力してください。

---
厳格なJSON形式で出力してください:
{
  "translated_title": "...",
  "translated_summary": "...",
  "gemini_insight": "...",
  "gemini_example": "...",
  "gemini_explanation": ["...", "..."]
}`

// translatePromptTemplate handles foreign-language articles: translation
// plus the same analysis fields.
const translatePromptTemplate = `あなたはIT・AI分野の専門コンサルタントです。
以下の英語ニュース記事について、日本のビジネスパーソンやエンジニアに向けて
有益な情報を提供するためのJSONを作成してください。

【入力情報】
タイトル: %s
概要: %s

【出力項目（JSON）】
1. translated_title: (文字列) タイトルを自然な日本語に翻訳してください。
2. translated_summary: (文字列) 概要を「です・ます」調で簡潔に翻訳してください。
3. gemini_insight: (文字列) 【考察】業界への影響や背景を論理的な文章で記述してください。
4. gemini_example: (文字列) 【具体例】具体的なユースケースを記述してください。
5. gemini_explanation: (文字列のリスト配列)
   【用語解説】記事に出てくる専門用語や前提知識を、
   ["用語A: 解説A", "用語B: 解説B"] という形式のリスト配列で出力してください。

---
厳格なJSON形式で出力してください:
{
  "translated_title": "...",
  "translated_summary": "...",
  "gemini_insight": "...",
  "gemini_example": "...",
  "gemini_explanation": ["...", "..."]
}`
