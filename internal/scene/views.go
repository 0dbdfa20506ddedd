package scene

import (
	"fmt"
	"math"

	"github.com/Garsondee/Memory-Duel/internal/protocol"
	"github.com/Garsondee/Memory-Duel/internal/render"
)

const (
	scoreX = 300
	scoreY = 780
	// enemyScoreOffset places the opponent score to the right of ours.
	enemyScoreOffset = 250
	scoreWidth       = 230
)

// Verdict returns the end-of-match banner. A tie counts as a win.
func Verdict(s *Session) string {
	if s.MyScore >= s.OpponentScore {
		return "WIN"
	}
	return "LOSE"
}

func half(s *Session) float64 { return s.Settings.CanvasWidth / 2 }

func viewIntro(s *Session, f Frame, dst render.Surface) {
	dst.DrawText("GameStart", 150, 150, render.FaceHuge, render.Black, half(s))
	dst.DrawText("pressEnter", 300, 300, render.FaceLarge, render.Red, half(s))
}

func viewLogin(s *Session, f Frame, dst render.Surface) {
	dst.DrawText("Login", 150, 150, render.FaceHuge, render.Black, half(s))
	dst.DrawText("pressEnter", 300, 300, render.FaceLarge, render.Red, half(s))
	if s.IdentityRequested && s.IdentityID == "" {
		dst.DrawText("signing in...", 300, 360, render.FaceSmall, render.White, half(s))
	}
}

func credentialField(v string) string {
	if v == "" {
		return "null"
	}
	return v
}

func viewUserPage(s *Session, f Frame, dst render.Surface) {
	w := s.Settings.CanvasWidth
	var creds struct{ key, secret, token string }
	if s.Credentials != nil {
		creds.key = s.Credentials.AccessKeyID
		creds.secret = s.Credentials.SecretKey
		creds.token = s.Credentials.SessionToken
	}

	dst.DrawText("user 1", 100, 340, render.FaceBody, render.White, w)
	dst.DrawText("accessKeyId: "+credentialField(creds.key), 300, 150, render.FaceSmall, render.Red, w)
	dst.DrawText("secretKey: "+credentialField(creds.secret), 300, 200, render.FaceSmall, render.Red, w)
	dst.DrawText("sessionToken: "+credentialField(creds.token), 300, 250, render.FaceSmall, render.Red, w)
	if s.Credentials != nil {
		dst.DrawText("press C to copy", 300, 290, render.FaceSmall, render.White, w)
	}
	dst.DrawText("Game Start", 300, 680, render.FaceTitle, render.Cyan, w)
	dst.DrawText("press M", 440, 720, render.FaceBody, render.Cyan, w)

	// Avatar card centred on (150, 200).
	dst.DrawImage(s.Settings.Avatar, 50, 90, 200, 220)
}

func viewMatching(s *Session, f Frame, dst render.Surface) {
	alpha := math.Abs(math.Sin(f.Elapsed.Seconds()))
	dst.DrawText("Now Matching...", 300, 350, render.FaceLarge, render.WithAlpha(render.Yellow, alpha), half(s))
	drawTransportError(s, dst)
}

func drawScores(s *Session, dst render.Surface) {
	dst.DrawText(fmt.Sprintf("Your Score:  %d", s.MyScore), scoreX, scoreY, render.FaceScore, render.Black, scoreWidth)
	dst.DrawText(fmt.Sprintf("Enemy Score:  %d", s.OpponentScore), scoreX+enemyScoreOffset, scoreY, render.FaceScore, render.Black, scoreWidth)
}

func drawBoard(s *Session, dst render.Surface) {
	if s.Board != nil {
		s.Board.AdvanceFrame(dst)
	}
}

func viewChoose(s *Session, f Frame, dst render.Surface) {
	if !s.MyTurn {
		return
	}
	drawBoard(s, dst)
	drawScores(s, dst)
	dst.DrawCircle(scoreX-30, scoreY-11, 17, render.Cyan)
	drawTransportError(s, dst)
}

func viewWait(s *Session, f Frame, dst render.Surface) {
	if s.MyTurn {
		return
	}
	dst.DrawText("Choosing wait", 150, 150, render.FaceHuge, render.Black, half(s))
	drawBoard(s, dst)
	drawScores(s, dst)
	dst.DrawCircle(scoreX+enemyScoreOffset-30, scoreY-11, 17, render.Cyan)
	drawTransportError(s, dst)
}

func viewStop(s *Session, f Frame, dst render.Surface) {
	drawBoard(s, dst)
	drawScores(s, dst)
	if s.Outcome == protocol.StatusSuccess {
		dst.DrawText("SUCCESS", 380, 400, render.FaceBanner, render.Yellow, half(s))
	} else {
		dst.DrawText("FAILED", 400, 400, render.FaceBanner, render.Yellow, half(s))
	}
	drawTransportError(s, dst)
}

func viewEnd(s *Session, f Frame, dst render.Surface) {
	drawScores(s, dst)
	dst.DrawText("Game Over", 300, 80, render.FaceTitle, render.White, s.Settings.CanvasWidth)
	dst.DrawText("press Q", 410, 460, render.FaceLarge, render.Red, half(s))
	if Verdict(s) == "WIN" {
		dst.DrawText("WIN", 350, 400, render.FaceHuge, render.Yellow, half(s))
	} else {
		dst.DrawText("LOSE", 300, 400, render.FaceHuge, render.Yellow, half(s))
	}
}

func drawTransportError(s *Session, dst render.Surface) {
	if s.TransportErr == nil {
		return
	}
	dst.DrawText("Connection lost. Press Q to return", 20, 40, render.FaceSmall, render.Red, s.Settings.CanvasWidth)
}

func drawAlert(s *Session, dst render.Surface) {
	w, h := s.Settings.CanvasWidth, s.Settings.CanvasHeight
	dst.FillRect(w/2-350, h/2-80, 700, 160, render.WithAlpha(render.Black, 0.85))
	dst.DrawText(s.Alert, w/2-330, h/2-10, render.FaceSmall, render.White, 660)
	dst.DrawText("press Enter", w/2-330, h/2+40, render.FaceSmall, render.Red, 660)
}
