// Package nqc defines the NQC/RCX construct catalog: tasks, motors, sensors,
// timers, sound, LCD display, variables, control flow and datalogs.
package nqc

import (
	"github.com/nqc-blocks/nqcblocks/internal/blocks/construct"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/fields"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/types"
)

// Palette colours.
const (
	ColorTask     = "#FFBF00"
	ColorMotor    = "#4C97FF"
	ColorSensor   = "#4CBFE6"
	ColorSound    = "#FF6EC7"
	ColorDisplay  = "#9966FF"
	ColorControl  = "#FFAB19"
	ColorVariable = "#FF8C1A"
	ColorDatalog  = "#FF6680"
	ColorMath     = "#40BF4A"
)

// Palette categories.
const (
	CategoryTask     = "task"
	CategoryMotor    = "motor"
	CategorySensor   = "sensor"
	CategoryTimer    = "timer"
	CategorySound    = "sound"
	CategoryDisplay  = "display"
	CategoryControl  = "control"
	CategoryVariable = "variable"
	CategoryDatalog  = "datalog"
)

var (
	motorOptions = []fields.Option{
		fields.Opt("A", "OUT_A"),
		fields.Opt("B", "OUT_B"),
		fields.Opt("C", "OUT_C"),
		fields.Opt("A+B", "OUT_A+OUT_B"),
		fields.Opt("A+C", "OUT_A+OUT_C"),
		fields.Opt("B+C", "OUT_B+OUT_C"),
		fields.Opt("全て", "OUT_A+OUT_B+OUT_C"),
	}
	powerOptions = []fields.Option{
		fields.Opt("低 (1)", "OUT_LOW"),
		fields.Opt("中 (4)", "OUT_HALF"),
		fields.Opt("高 (7)", "OUT_FULL"),
	}
	portOptions = []fields.Option{
		fields.Opt("1", "1"),
		fields.Opt("2", "2"),
		fields.Opt("3", "3"),
	}
	sensorTypeOptions = []fields.Option{
		fields.Opt("タッチセンサー", "SENSOR_TOUCH"),
		fields.Opt("光センサー", "SENSOR_LIGHT"),
		fields.Opt("回転センサー", "SENSOR_ROTATION"),
		fields.Opt("温度センサー（℃）", "SENSOR_CELSIUS"),
		fields.Opt("温度センサー（°F）", "SENSOR_FAHRENHEIT"),
	}
	timerOptions = []fields.Option{
		fields.Opt("0", "0"),
		fields.Opt("1", "1"),
		fields.Opt("2", "2"),
		fields.Opt("3", "3"),
	}
	soundOptions = []fields.Option{
		fields.Opt("クリック", "SOUND_CLICK"),
		fields.Opt("ダブルビープ", "SOUND_DOUBLE_BEEP"),
		fields.Opt("下降音", "SOUND_DOWN"),
		fields.Opt("上昇音", "SOUND_UP"),
		fields.Opt("低いビープ", "SOUND_LOW_BEEP"),
		fields.Opt("速い上昇音", "SOUND_FAST_UP"),
	}
	noteOptions = []fields.Option{
		fields.Opt("ド (C4)", "262"),
		fields.Opt("レ (D4)", "294"),
		fields.Opt("ミ (E4)", "330"),
		fields.Opt("ファ (F4)", "349"),
		fields.Opt("ソ (G4)", "392"),
		fields.Opt("ラ (A4)", "440"),
		fields.Opt("シ (B4)", "494"),
		fields.Opt("ド (C5)", "523"),
	}
	noteLengthOptions = []fields.Option{
		fields.Opt("0.25秒", "25"),
		fields.Opt("0.5秒", "50"),
		fields.Opt("1秒", "100"),
		fields.Opt("2秒", "200"),
	}
	displayOptions = []fields.Option{
		fields.Opt("時計", "DISPLAY_WATCH"),
		fields.Opt("センサー1", "DISPLAY_SENSOR_1"),
		fields.Opt("センサー2", "DISPLAY_SENSOR_2"),
		fields.Opt("センサー3", "DISPLAY_SENSOR_3"),
		fields.Opt("出力A", "DISPLAY_OUT_A"),
		fields.Opt("出力B", "DISPLAY_OUT_B"),
		fields.Opt("出力C", "DISPLAY_OUT_C"),
	}
)

func motors() fields.Field { return fields.Choice("MOTORS", motorOptions, 0) }
func port() fields.Field   { return fields.Choice("PORT", portOptions, 0) }
func timer() fields.Field  { return fields.Choice("TIMER", timerOptions, 0) }

func statement(name, category, color string) *construct.Builder {
	return construct.NewBuilder(name, construct.RoleStatement).Chain().Category(category).Color(color)
}

func expression(name, category, color string, out types.Type) *construct.Builder {
	return construct.NewBuilder(name, construct.RoleExpression).Output(out).Category(category).Color(color)
}

func topLevel(name, category, color string) *construct.Builder {
	return construct.NewBuilder(name, construct.RoleTopLevel).Category(category).Color(color)
}

// motorStatement is a MOTORS choice followed by a trailing label.
func motorStatement(name, suffix string) construct.Definition {
	return statement(name, CategoryMotor, ColorMotor).
		Dummy(fields.Label("モーター"), motors(), fields.Label(suffix)).
		MustBuild()
}

// Definitions returns the NQC catalog in palette order.
func Definitions() []construct.Definition {
	return []construct.Definition{
		// tasks
		topLevel("task_main", CategoryTask, ColorTask).
			Dummy(fields.Label("タスク main")).
			Statement("STATEMENTS").
			Help("メインタスクを定義します").
			MustBuild(),
		topLevel("task_custom", CategoryTask, ColorTask).
			Dummy(fields.Label("タスク"), fields.Text("TASKNAME", "myTask")).
			Statement("STATEMENTS").
			Help("カスタムタスクを定義します").
			MustBuild(),
		statement("start_task", CategoryTask, ColorTask).
			Dummy(fields.Label("タスクを開始"), fields.Text("TASKNAME", "myTask")).
			MustBuild(),
		statement("stop_task", CategoryTask, ColorTask).
			Dummy(fields.Label("タスクを停止"), fields.Text("TASKNAME", "myTask")).
			MustBuild(),

		// motors
		motorStatement("motor_on", "をON"),
		motorStatement("motor_off", "をOFF"),
		motorStatement("motor_fwd", "を前進方向に設定"),
		motorStatement("motor_rev", "を後退方向に設定"),
		motorStatement("motor_on_fwd", "を前進でON"),
		statement("motor_on_for", CategoryMotor, ColorMotor).
			Dummy(fields.Label("モーター"), motors(), fields.Label("を")).
			Value("TIME", types.Number).
			Dummy(fields.Label("× 0.01秒間ON")).
			Inline().
			MustBuild(),
		statement("set_power", CategoryMotor, ColorMotor).
			Dummy(fields.Label("モーター"), motors(), fields.Label("のパワーを"),
				fields.Choice("POWER", powerOptions, 0)).
			MustBuild(),

		// sensors
		statement("set_sensor", CategorySensor, ColorSensor).
			Dummy(fields.Label("センサー"), port(), fields.Label("を"),
				fields.Choice("TYPE", sensorTypeOptions, 0), fields.Label("に設定")).
			MustBuild(),
		expression("sensor_value", CategorySensor, ColorSensor, types.Number).
			Dummy(fields.Label("センサー"), port(), fields.Label("の値")).
			MustBuild(),
		expression("sensor_value_bool", CategorySensor, ColorSensor, types.Boolean).
			Dummy(fields.Label("センサー"), port(), fields.Label("のブール値")).
			MustBuild(),
		statement("clear_sensor", CategorySensor, ColorSensor).
			Dummy(fields.Label("センサー"), port(), fields.Label("をクリア")).
			MustBuild(),

		// timers
		expression("timer_value", CategoryTimer, ColorSensor, types.Number).
			Dummy(fields.Label("タイマー"), timer(), fields.Label("の値")).
			MustBuild(),
		statement("clear_timer", CategoryTimer, ColorSensor).
			Dummy(fields.Label("タイマー"), timer(), fields.Label("をクリア")).
			MustBuild(),

		// sound
		statement("play_sound", CategorySound, ColorSound).
			Dummy(fields.Label("サウンドを再生"), fields.Choice("SOUND", soundOptions, 0)).
			MustBuild(),
		statement("play_tone", CategorySound, ColorSound).
			Value("FREQ", types.Number, fields.Label("周波数")).
			Value("DURATION", types.Number, fields.Label("Hz を")).
			Dummy(fields.Label("× 0.01秒 鳴らす")).
			Inline().
			MustBuild(),
		statement("play_note", CategorySound, ColorSound).
			Dummy(fields.Label("音を鳴らす"), fields.Choice("NOTE", noteOptions, 0),
				fields.Label("長さ"), fields.Choice("DURATION", noteLengthOptions, 0)).
			MustBuild(),

		// LCD display
		statement("select_display", CategoryDisplay, ColorDisplay).
			Dummy(fields.Label("LCD表示を"), fields.Choice("MODE", displayOptions, 0), fields.Label("に設定")).
			Help("LCD表示モードを選択します").
			MustBuild(),
		statement("set_user_display", CategoryDisplay, ColorDisplay).
			Value("VALUE", types.Any, fields.Label("LCDに")).
			Dummy(fields.Label("を小数点")).
			Value("PRECISION", types.Number).
			Dummy(fields.Label("桁で表示")).
			Inline().
			Help("LCDにユーザー定義の値を表示します（RCX2のみ）").
			MustBuild(),

		statement("wait", CategoryControl, ColorControl).
			Value("DURATION", types.Number, fields.Label("待つ")).
			Dummy(fields.Label("× 0.01秒")).
			Inline().
			MustBuild(),

		// variables
		topLevel("variables_declare_global", CategoryVariable, ColorVariable).
			Dummy(fields.Label("グローバル変数"), fields.Text("VAR", "x"), fields.Label("を")).
			Value("VALUE", types.Number).
			Dummy(fields.Label("で初期化")).
			Inline().
			Help("グローバル変数を宣言して初期値を設定します").
			MustBuild(),
		expression("variables_get", CategoryVariable, ColorVariable, types.Number).
			Dummy(fields.Label("変数"), fields.Text("VAR", "x")).
			MustBuild(),
		statement("variables_set", CategoryVariable, ColorVariable).
			Dummy(fields.Label("変数"), fields.Text("VAR", "x"), fields.Label("を")).
			Value("VALUE", types.Number).
			Dummy(fields.Label("にする")).
			Inline().
			MustBuild(),
		statement("variables_change", CategoryVariable, ColorVariable).
			Dummy(fields.Label("変数"), fields.Text("VAR", "x"), fields.Label("を")).
			Value("DELTA", types.Number).
			Dummy(fields.Label("だけ増やす")).
			Inline().
			MustBuild(),

		// control
		statement("if_else", CategoryControl, ColorControl).
			Value("CONDITION", types.Any, fields.Label("もし")).
			Dummy(fields.Label("なら")).
			Statement("DO").
			Dummy(fields.Label("でなければ")).
			Statement("ELSE").
			Help("条件分岐（if-else）").
			MustBuild(),
		statement("while_loop", CategoryControl, ColorControl).
			Value("CONDITION", types.Boolean, fields.Label("繰り返す 条件:")).
			Statement("DO").
			Help("条件が真の間繰り返します").
			MustBuild(),
		statement("repeat_times", CategoryControl, ColorControl).
			Value("TIMES", types.Number, fields.Label("繰り返す")).
			Dummy(fields.Label("回")).
			Statement("DO").
			MustBuild(),

		// datalog
		statement("create_datalog", CategoryDatalog, ColorDatalog).
			Value("SIZE", types.Number, fields.Label("データログを")).
			Dummy(fields.Label("件作成")).
			Inline().
			Help("データログを作成します").
			MustBuild(),
		statement("add_to_datalog", CategoryDatalog, ColorDatalog).
			Value("VALUE", types.Any, fields.Label("データログに")).
			Dummy(fields.Label("を追加")).
			Inline().
			Help("データログに値を追加します").
			MustBuild(),
	}
}
