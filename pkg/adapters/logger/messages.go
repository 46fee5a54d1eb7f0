package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":                       "パイプラインを開始します",
		"Input %d: %s (%s)":                       "入力 %d: %s (%s)",
		"Output: %s (%s)":                         "出力: %s (%s)",
		"Layout calculated: %s output, policy %s": "レイアウト計算完了: 出力 %s, ポリシー %s",
		"Graph configured with %d filters":        "%d 個のフィルタでグラフを構成しました",
		"Wrote %d frames (%d bytes) to %s":        "%d フレーム (%d バイト) を %s に書き込みました",
		"Pipeline completed successfully":         "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":           "中断されました。シャットダウン中...",
		"Summary saved to %s":                     "サマリーを %s に保存しました",
		"Debug output in %s":                      "デバッグ出力先: %s",

		// Graph component (debug)
		"Creating source %s: %s": "ソース %s を作成: %s",
		"Creating sink %s":       "シンク %s を作成",
		"Parsing %s":             "%s を解析中",
		"Filter %s":              "フィルタ %s",

		// Driver component (debug)
		"Stream %d ended after %d frames": "ストリーム %d は %d フレームで終了しました",
		"Sink closed after %d frames":     "シンクは %d フレームで終了しました",
		"Terminating after %d rounds: %s": "%d ラウンドで終了します: %s",

		// Warnings
		"Output size %s does not match the composited size %s; frames are written at %s": "出力サイズ %s が合成サイズ %s と一致しません。フレームは %s で書き込まれます",
		"Failed to render preview %d: %s":                                                "プレビュー %d の描画に失敗しました: %s",
		"Graph produces %s, layout expected %s":                                          "グラフの出力は %s ですが、レイアウトは %s を想定しています",
		"Font %s unavailable, using the built-in face: %s":                               "フォント %s を読み込めないため内蔵フォントを使用します: %s",

		// Errors
		"Invalid configuration: %s":      "設定が不正です: %s",
		"Failed to calculate layout: %s": "レイアウトの計算に失敗しました: %s",
		"Failed to build graph: %s":      "グラフの構築に失敗しました: %s",
		"Failed to open input: %s":       "入力を開けませんでした: %s",
		"Failed to create output: %s":    "出力を作成できませんでした: %s",
		"Failed to write output: %s":     "出力の書き込みに失敗しました: %s",
		"Mixing stopped: %s":             "合成が中断されました: %s",
	})
}
