// Package admindash provides the data layer of a small admin dashboard:
// users and products with role-gated CRUD, KPI summaries, monthly analytics
// series and an activity feed, persisted in PostgreSQL.
//
// The tabular views are produced by the datatable package and the charts by
// the chart package. The ui packages mount the dashboard as an http.Handler.
//
// # Quick Start
//
//	pool, _ := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
//	drv := pgxv5.New(pool)
//	if err := drv.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := admindash.NewClient(drv, &admindash.ClientConfig{
//	    Logger: slog.Default(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Stop(context.Background())
//
//	user, err := client.CreateUser(ctx, admindash.UserInput{
//	    Name:   "Jane Smith",
//	    Email:  "jane.smith@example.com",
//	    Role:   admindash.UserRoleEditor,
//	    Status: admindash.UserStatusActive,
//	})
//
// # Roles
//
// The dashboard has a single persisted viewer role. Admins may create, edit
// and delete records and reset or clear the data set; viewers are read-only
// and every write returns ErrPermissionDenied.
//
// # Transactions
//
// Every write and its activity event are stored in one transaction when the
// driver supports transactions. To include a write in your own transaction,
// pass the context returned by WithTx:
//
//	tx, _ := pool.Begin(ctx)
//	defer tx.Rollback(ctx)
//	_, err := client.CreateProduct(client.WithTx(ctx, tx), input)
//	tx.Commit(ctx)
//
// # Change notifications
//
// Each committed write is announced on the admindash_data_changed channel.
// Subscribe receives those announcements from every process sharing the
// database, which the UI forwards to browsers as server-sent events.
package admindash
