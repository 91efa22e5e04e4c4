package config

// CLINIC_YML is written out as the config file the first time the CLI runs without one.
// Empty directories resolve next to the config file.
const CLINIC_YML = `
database:
  driver: sqlite
  logLevel: silent
  autoMigrate: true
  sqlite:
    passPhrase: passphrase
    dir: ""
  # Credentials can also be set with DB_USER, DB_PASS, DB_HOST, DB_PORT and DB_NAME
  mysql:
    host: localhost
    port: 3306
    user:
    password:
    name: clinic

photos:
  backend: local
  dir: ""
  cleanupSchedule: "*/10 * * * *"
  gcs:
    bucket:
    prefix: clinic-photos
    applicationCredentials:
  minio:
    endpoint:
    accessKey:
    secretKey:
    bucket: clinic-photos
    useSSL: true

server:
  port: 3000
  timeZone: "UTC"

logger:
  level: info
`
