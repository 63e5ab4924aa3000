// Package mongo reads indexable entity records from MongoDB with the
// official v2 driver.
//
// Config is environment driven (MONGODB_URL, MONGODB_DATABASE, ...). New
// connects with retries and Healthcheck wraps a ping:
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	source := mongo.NewSource(db)
//
// Each entity maps to the collection named after its source name. Documents
// are ordered by the identifier field, "_id" unless the entity names one;
// object ids become hex strings and BSON datetimes become time.Time.
//
// Failures join ErrQueryFailed or ErrMissingIdentifier with the driver
// error, so errors.Is works on both.
package mongo
