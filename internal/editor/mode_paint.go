package editor

import (
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/logger"
)

// paintMode recolors walls, ramps and powerup spawns with the active
// paint color. Other kinds carry no color and are left alone.
type paintMode struct {
	baseMode
}

func (paintMode) name() string { return "paint" }

func (paintMode) pointerDown(ed *Editor, ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	_, node, ok := ed.pick(ev.Ray)
	if !ok {
		return
	}
	switch node.Kind {
	case document.KindWall, document.KindRamp, document.KindSpawn:
	default:
		logger.Info("paint ignored", zap.String("kind", node.Kind.String()))
		return
	}
	if err := ed.doc.SetColor(node.ID, ed.paintColor); err != nil {
		return
	}
	ed.mirror.Sync(ed.doc, node.ID)
	ed.commit("paint")
}
