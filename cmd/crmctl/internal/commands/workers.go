package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type ListWorkersCmd struct{}

func (c *ListWorkersCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	workers, err := repository.NewWorkerRepository(e.pg.PoolHandle()).List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workers: %w", err)
	}
	printWorkers(workers)
	return nil
}

func printWorkers(workers []domain.Worker) {
	if len(workers) == 0 {
		fmt.Println("No workers found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE")
	for _, worker := range workers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", worker.ID, worker.Username, worker.FullName(), worker.Email, worker.Role)
	}
	_ = w.Flush()
}
