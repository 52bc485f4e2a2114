package config

import (
	"github.com/sirupsen/logrus"

	"image-colorization/internal/core"
	"image-colorization/internal/model"
)

// Pipeline is a loaded model wired into a colorizer.
type Pipeline struct {
	*core.Colorizer
	Model    *model.NetModel
	Debugger *core.StageDebugger
}

// LoadPipeline loads the configured model. In debug mode every stage is timed
// and the summary is logged on Close.
func (c Config) LoadPipeline(logger logrus.FieldLogger) (*Pipeline, error) {
	net, err := model.Load(c.ModelOptions(), logger)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Colorizer: core.NewColorizer(net, logger),
		Model:     net,
	}
	if c.Debug {
		p.Debugger = core.NewStageDebugger(logger)
		p.Colorizer.SetDebugger(p.Debugger)
	}
	return p, nil
}

func (p *Pipeline) Close() error {
	p.Debugger.LogSummary()
	return p.Model.Close()
}
