package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/roadsim-oss/stats"
	"github.com/tsinghua-fib-lab/roadsim-oss/task"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/config"
	"github.com/tsinghua-fib-lab/roadsim-oss/utils/input"
	"gopkg.in/yaml.v2"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 极速模式：连续执行批次、只按轮推送快照
	turbo = flag.Bool("turbo", false, "run in turbo mode (batched ticks, fewer snapshots)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "roadsim")
)

// logObserver 将周期快照与结束统计写入日志的观察者
type logObserver struct{}

func (logObserver) OnSnapshot(s *stats.Snapshot) {
	log.Infof("t=%.1fs active=%d completed=%d avgV=%.1fm/s anomalies=%d laneChanges=%d trajPoints=%d",
		s.T, s.Active, s.Completed, s.AvgSpeed, s.TotalAnomalies, s.TotalLaneChanges, s.TrajectoryCount)
	for _, r := range s.NewSegmentRecords {
		log.Debugf("segment %d@%.0fs: count=%d avgV=%.1f density=%.4f flow=%.4f",
			r.Index, r.T, r.Count, r.AvgV, r.Density, r.Flow)
	}
}

func (logObserver) OnComplete(f *stats.FinalStats) {
	log.Infof("complete: t=%.1fs completed=%d avgTravelTime=%.1fs anomalies=%d laneChanges=%d segments=%d trajectory=%d events=%d",
		f.T, f.Completed, f.AvgTravelTime, f.TotalAnomalies, f.TotalLaneChanges,
		len(f.SegmentRecords), len(f.Trajectory), len(f.Events))
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var c config.Config
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	// 加载道路几何等输入数据
	in := input.Init(c)

	t, err := task.NewContext(c, in, logObserver{})
	if err != nil {
		log.Panicf("invalid config: %v", err)
	}

	t.Run(*turbo)
}
