// Package mongo connects to MongoDB with retries and exposes a health check.
//
//	cfg, _ := config.Load[mongo.Config]()
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	reports := db.Collection("reports")
//
// Errors are sentinels: ErrEmptyConnectionURL, ErrFailedToConnectToMongo and
// ErrHealthcheckFailed, joined with the driver error where one exists.
package mongo
