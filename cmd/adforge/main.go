package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"adforge/internal/artifact"
	"adforge/internal/config"
	"adforge/internal/llm"
	"adforge/internal/pipeline/absummary"
	"adforge/internal/pipeline/brief"
	"adforge/internal/runner"
	"adforge/internal/store"
)

func main() {
	matrixPath := flag.String("matrix", "", "path to the planning matrix JSON")
	researchPath := flag.String("research", "", "path to the research artifact JSON")
	reviewsPath := flag.String("reviews", "", "optional path to human review JSON for the A/B summary")
	pilot := flag.Int("pilot", 8, "pilot size (max brief units)")
	parallel := flag.Int("parallel", 0, "max parallel units (overrides env)")
	sampling := flag.String("sampling", "round_robin", "cell sampling: round_robin or flatten")
	useFake := flag.Bool("fake", false, "use the deterministic fake generator (offline)")
	flag.Parse()
	if *matrixPath == "" || *researchPath == "" {
		log.Fatal("--matrix and --research are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *parallel > 0 {
		cfg.MaxParallel = *parallel
	}

	var plan artifact.PlanMatrix
	readJSON(*matrixPath, &plan)
	var research artifact.ResearchArtifact
	readJSON(*researchPath, &research)

	ctx := context.Background()
	var client llm.LLMClient
	if *useFake {
		client = llm.NewFakeClient()
	} else {
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Fatal("GEMINI_API_KEY is not set (or pass --fake)")
		}
		gem, err := llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model)
		if err != nil {
			log.Fatal(err)
		}
		client = gem
	}
	client = llm.Wrap(client, llm.Logging(), llm.Retry(3, 500*time.Millisecond))
	defer client.Close()

	recordStore, err := store.NewFromEnv(cfg.StoreDir)
	if err != nil {
		log.Fatal(err)
	}
	defer recordStore.Close()

	var snapshots *store.SnapshotStore
	if cfg.Snapshot.Enabled {
		snapshots, err = store.NewSnapshotStore(cfg.Snapshot.SnapshotConfig)
		if err != nil {
			log.Printf("snapshot store disabled: %v", err)
			snapshots = nil
		}
	}

	batch := &runner.Batch{
		LLM:          client,
		MaxParallel:  cfg.MaxParallel,
		PilotSize:    *pilot,
		SamplingMode: brief.SamplingMode(*sampling),
	}
	result, err := batch.Run(ctx, plan, research)
	if err != nil {
		log.Fatal(err)
	}

	if *reviewsPath != "" {
		var reviews []artifact.QualityReview
		readJSON(*reviewsPath, &reviews)
		result.Summary = absummary.Compute(runner.Outcomes(result.Units), reviews)
	}

	persist(ctx, recordStore, snapshots, result)
	log.Printf("batch %s done: %d units, winner=%s (%s)",
		result.RunID, len(result.Units), result.Summary.Winner, result.Summary.Reason)
}

func persist(ctx context.Context, st *store.Store, snaps *store.SnapshotStore, result runner.BatchResult) {
	for _, u := range result.Units {
		saveRecord(st, result.RunID, store.KindBriefUnit, u.Unit.ID, u.Unit)
		saveRecord(st, result.RunID, store.KindEvidencePack, u.Unit.ID, u.Pack)
		for arm, ar := range u.Arms {
			key := u.Unit.ID + "-" + string(arm)
			saveRecord(st, result.RunID, store.KindScriptDraft, key, ar.Draft)
			saveRecord(st, result.RunID, store.KindHookBundle, key, ar.Hooks)
			saveRecord(st, result.RunID, store.KindScenePlan, key, ar.Scene)
			saveRecord(st, result.RunID, store.KindSceneReport, key, ar.Report)
			if ar.Scene.Status == artifact.StatusOK {
				if err := snaps.PutSnapshot(ctx, result.RunID, u.Unit.ID, string(arm), "hook_bundle", ar.Hooks); err != nil {
					log.Printf("snapshot %s: %v", key, err)
				}
				if err := snaps.PutSnapshot(ctx, result.RunID, u.Unit.ID, string(arm), "scene_plan", ar.Scene); err != nil {
					log.Printf("snapshot %s: %v", key, err)
				}
			}
		}
	}
	saveRecord(st, result.RunID, store.KindABSummary, "summary", result.Summary)
}

func saveRecord(st *store.Store, runID, kind, key string, value any) {
	if err := st.Save(runID, kind, key, value); err != nil {
		log.Printf("save %s/%s: %v", kind, key, err)
	}
}

func readJSON(path string, v any) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}
}
