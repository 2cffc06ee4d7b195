package timeline

import (
	"fmt"
	"io"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/opst/chronodemica/pkg/api/types"
	"github.com/opst/chronodemica/pkg/plotting/timeline"
)

const barTemplate pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }}`

// progressBar shows fetches of periods.
type progressBar struct {
	bar *pb.ProgressBar
}

var _ timeline.Progress = &progressBar{}

func newProgressBar(w io.Writer) *progressBar {
	bar := barTemplate.New(0)
	bar.SetWriter(w)
	return &progressBar{bar: bar}
}

func (p *progressBar) Fetched(period types.Period, done int, total int) {
	if !p.bar.IsStarted() {
		p.bar.SetTotal(int64(total))
		p.bar.Start()
	}
	p.bar.Set("prefix", fmt.Sprintf("fetched %d:", period.Year))
	p.bar.SetCurrent(int64(done))
}

func (p *progressBar) Finish() {
	if p.bar.IsStarted() {
		p.bar.Finish()
	}
}
