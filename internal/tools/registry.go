package tools

import (
	"github.com/ChamsBouzaiene/insightd/internal/dataset"
	"github.com/ChamsBouzaiene/insightd/internal/engine"
	"github.com/ChamsBouzaiene/insightd/internal/runner"
	"github.com/ChamsBouzaiene/insightd/internal/tools/analysis"
)

// NewAnalysisRegistry creates the engine.ToolRegistry both pipelines
// share: the dataset summary tool and the code-execution tool, bound to
// one dataset session.
func NewAnalysisRegistry(session *dataset.Session, r *runner.Runner) engine.ToolRegistry {
	reg := make(engine.ToolRegistry)
	reg["get_data_eda"] = analysis.NewEDATool(session)
	reg["execute_analysis_code"] = analysis.NewExecuteTool(r)
	return reg
}
