package services

import (
	"context"
	"os"
	"testing"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
)

func TestVerifyService_Residuals(t *testing.T) {
	env := newLocalizeEnv(t, nil)
	verify := NewVerifyService(env.svc, env.extractor, env.repo)

	env.writeSite(t, "public/index.html", `<html><head>
<script src="https://framerusercontent.com/sites/x/app.mjs"></script>
<style>body{background:url(https://framerusercontent.com/images/bg.png)}</style>
</head><body>
<!-- https://framer.com/m/comment.js -->
<img src="/assets/images/ok.png">
</body></html>`)
	env.writeSite(t, "public/site.css", `a{background:url(https://framerusercontent.com/images/x.png)}`)
	env.writeSite(t, "public/clean.html", `<img src="/assets/images/ok.png">`)

	resp, err := verify.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if resp.FilesChecked != 3 {
		t.Errorf("expected 3 files checked, got %d", resp.FilesChecked)
	}

	where := make(map[string]string)
	for _, r := range resp.Residuals {
		where[r.URL] = r.Where
	}
	expected := map[string]string{
		"https://framerusercontent.com/sites/x/app.mjs": "script[src]",
		"https://framerusercontent.com/images/bg.png":   "style",
		"https://framer.com/m/comment.js":               "comment",
		"https://framerusercontent.com/images/x.png":    "text",
	}
	if len(where) != len(expected) {
		t.Errorf("expected %d residuals, got %v", len(expected), resp.Residuals)
	}
	for url, w := range expected {
		if where[url] != w {
			t.Errorf("residual %s: expected where %q, got %q", url, w, where[url])
		}
	}
}

func TestVerifyService_ChecksDownloadedAssets(t *testing.T) {
	env := newLocalizeEnv(t, nil)
	verify := NewVerifyService(env.svc, env.extractor, env.repo)
	if err := env.ws.Initialize(); err != nil {
		t.Fatal(err)
	}

	// Mapping file itself is full of remote URLs and must not be reported
	os.WriteFile(env.ws.MappingPath, []byte(`{"https://framerusercontent.com/a.css": "/assets/styles/a.css"}`), 0644)
	env.writeSite(t, "public/assets/styles/a.css", `src:url(https://framerusercontent.com/nested.woff2)`)

	resp, err := verify.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if len(resp.Residuals) != 1 || resp.Residuals[0].URL != "https://framerusercontent.com/nested.woff2" {
		t.Errorf("expected only the nested residual, got %v", resp.Residuals)
	}
}

func TestVerifyService_MissingAssets(t *testing.T) {
	env := newLocalizeEnv(t, nil)
	verify := NewVerifyService(env.svc, env.extractor, env.repo)
	ctx := context.Background()

	present := env.writeSite(t, "public/assets/images/here.png", "png")
	env.repo.Save(ctx, domain.AssetRecord{URL: "https://framer.com/here.png", LocalPath: "/assets/images/here.png", FilePath: present})
	env.repo.Save(ctx, domain.AssetRecord{URL: "https://framer.com/gone.png", LocalPath: "/assets/images/gone.png", FilePath: env.ws.GetAssetPath(domain.CategoryImages, "gone.png")})

	resp, err := verify.Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if len(resp.MissingAssets) != 1 || resp.MissingAssets[0].URL != "https://framer.com/gone.png" {
		t.Errorf("expected gone.png missing, got %v", resp.MissingAssets)
	}
}

func TestVerifyService_CleanSite(t *testing.T) {
	env := newLocalizeEnv(t, nil)
	verify := NewVerifyService(env.svc, env.extractor, env.repo)

	url := "https://framerusercontent.com/images/a.png"
	env.fetcher.SetResponse(url, []byte("png"), "image/png")
	env.writeSite(t, "public/index.html", `<img src="`+url+`">`)

	if _, err := env.svc.Execute(context.Background(), LocalizeRequest{}); err != nil {
		t.Fatalf("localize failed: %v", err)
	}

	resp, err := verify.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if len(resp.Residuals) != 0 || len(resp.MissingAssets) != 0 {
		t.Errorf("expected clean site, got %+v", resp)
	}
}
