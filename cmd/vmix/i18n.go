// Package main provides localization for the vmix CLI.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Composite raw YUV videos into one stacked video": "複数のYUV生動画を1つに積み重ねて合成",

		// Commands
		"Stack two raw YUV videos into one output file": "2つのYUV生動画を1つの出力ファイルに積み重ねる",
		"Show version information":                      "バージョン情報を表示",
		"vmix version %s":                               "vmix バージョン %s",

		// Stream flags
		"Frame size WxH of the next -i or -o":          "次の -i または -o のフレームサイズ (WxH)",
		"Input raw video file (repeat for each input)": "入力YUV生動画ファイル（入力ごとに指定）",
		"Output raw video file":                        "出力YUV生動画ファイル",

		// Composition flags
		"Arrangement of the inputs (vstack, hstack)":                            "入力の配置（vstack, hstack）",
		"What to do when inputs differ in length (shortest, longest, zero-pad)": "入力の長さが異なる場合の処理（shortest, longest, zero-pad）",
		"YAML job file; flags override its values":                              "YAMLジョブファイル（フラグが優先されます）",

		// Debug, summary and logging flags
		"Save the graph, run result and frame previews":      "グラフ、実行結果、フレームのプレビューを保存",
		"Directory for debug output (default: ./debug)":      "デバッグ出力先ディレクトリ（デフォルト: ./debug）",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Log level (debug, info, warn, error)":               "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                            "すべてのログ出力を抑制",

		// Errors
		"Exactly two inputs are required, got %d":       "入力はちょうど2つ必要です（%d 個指定されました）",
		"Size flags out of order":                       "サイズ指定の順序が不正です",
		"Input flags out of order":                      "入力指定の順序が不正です",
		"Output flags out of order":                     "出力指定の順序が不正です",
		"Only one output is allowed":                    "出力は1つだけ指定できます",
		"Size %s is not followed by an input or output": "サイズ %s の後に入力または出力がありません",
		"Failed to write summary: %s":                   "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Mix Summary":    "合成サマリー",
		"Run ID":         "実行ID",
		"Generated":      "生成日時",
		"Inputs":         "入力",
		"File":           "ファイル",
		"Size":           "サイズ",
		"Frames Read":    "読み込みフレーム数",
		"Status":         "状態",
		"Open":           "継続",
		"Ended":          "終了",
		"Output":         "出力",
		"Item":           "項目",
		"Value":          "値",
		"Requested Size": "指定サイズ",
		"ignored":        "無視",
		"Frames Written": "書き込みフレーム数",
		"Bytes Written":  "書き込みバイト数",
		"Composition":    "合成",
		"Layout":         "レイアウト",
		"Policy":         "ポリシー",
		"Filters":        "フィルタ",
		"Termination":    "終了",
		"Reason":         "理由",
		"Rounds":         "ラウンド数",
		"Duration":       "所要時間",
		"Error":          "エラー",
		"Generated by":   "生成:",
	})
}

// helpVars returns the translated help strings interpolated into the
// CLI struct tags.
func helpVars() kong.Vars {
	return kong.Vars{
		"help_mix":       l10n.T("Stack two raw YUV videos into one output file"),
		"help_version":   l10n.T("Show version information"),
		"help_size":      l10n.T("Frame size WxH of the next -i or -o"),
		"help_input":     l10n.T("Input raw video file (repeat for each input)"),
		"help_output":    l10n.T("Output raw video file"),
		"help_layout":    l10n.T("Arrangement of the inputs (vstack, hstack)"),
		"help_policy":    l10n.T("What to do when inputs differ in length (shortest, longest, zero-pad)"),
		"help_config":    l10n.T("YAML job file; flags override its values"),
		"help_debug":     l10n.T("Save the graph, run result and frame previews"),
		"help_debug_dir": l10n.T("Directory for debug output (default: ./debug)"),
		"help_summary":   l10n.T("Output execution summary to file (Markdown format)"),
		"help_log_level": l10n.T("Log level (debug, info, warn, error)"),
		"help_quiet":     l10n.T("Suppress all log output"),
	}
}
