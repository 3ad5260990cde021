package logging

import (
	"testing"

	"github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewInstallsGlobal(t *testing.T) {
	g := gomega.NewWithT(t)
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	logger, err := New("debug", "json")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(zap.L()).To(gomega.BeIdenticalTo(logger))
	g.Expect(logger.Core().Enabled(zapcore.DebugLevel)).To(gomega.BeTrue())
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "bad level", level: "loud", format: "json"},
		{name: "bad format", level: "info", format: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			_, err := New(tt.level, tt.format)
			g.Expect(err).To(gomega.HaveOccurred())
		})
	}
}
