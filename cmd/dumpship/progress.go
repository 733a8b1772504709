package main

import (
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressBar renders upload progress on stderr.
type progressBar struct {
	bar *pb.ProgressBar
}

func (p *progressBar) Init(size int64) {
	p.bar = pb.New64(size).SetUnits(pb.U_BYTES)
	p.bar.Output = os.Stderr
	p.bar.ShowSpeed = true
	p.bar.Start()
}

func (p *progressBar) ProxyReader(r io.Reader) io.ReadCloser {
	return p.bar.NewProxyReader(r)
}

func (p *progressBar) Abort() {
	p.bar.Finish()
}

func (p *progressBar) Wait() {
	p.bar.Set64(p.bar.Total)
	p.bar.Finish()
}
